package conflict

import (
	"strings"

	"github.com/samber/lo"

	errUtils "github.com/cloudposse/tierconf/errors"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

// Strategy names how a conflict is resolved.
type Strategy string

const (
	StrategyUseHigherPriority Strategy = "UseHigherPriority"
	StrategyUseLowerPriority  Strategy = "UseLowerPriority"
	StrategyConcatenate       Strategy = "Concatenate"
	StrategyShallowUnion      Strategy = "ShallowUnion"
	StrategyKeepBoth          Strategy = "KeepBoth"
	StrategyCustom            Strategy = "Custom"
)

var knownStrategies = []Strategy{
	StrategyUseHigherPriority,
	StrategyUseLowerPriority,
	StrategyConcatenate,
	StrategyShallowUnion,
	StrategyKeepBoth,
	StrategyCustom,
}

// ParseStrategy matches a strategy name case-insensitively; unknown names are returned as is.
func ParseStrategy(s string) Strategy {
	for _, known := range knownStrategies {
		if strings.EqualFold(string(known), s) {
			return known
		}
	}
	return Strategy(s)
}

func (s Strategy) Valid() bool {
	return lo.Contains(knownStrategies, s)
}

// ParseKind matches a conflict kind case-insensitively.
func ParseKind(s string) (Kind, bool) {
	return lo.Find(Kinds, func(k Kind) bool { return strings.EqualFold(string(k), s) })
}

var builtinDefaults = map[Kind]Strategy{
	KindTypeMismatch:             StrategyUseHigherPriority,
	KindValueOverride:            StrategyUseHigherPriority,
	KindReferenceResolutionError: StrategyUseHigherPriority,
	KindArrayMergeConflict:       StrategyConcatenate,
	KindObjectMergeConflict:      StrategyShallowUnion,
}

// ResolverFunc computes the resolution of a conflict for the Custom strategy.
type ResolverFunc func(c Conflict) (value.Value, error)

// Resolver applies resolution strategies. It holds no per-run state.
type Resolver struct {
	config   *schema.Configuration
	defaults map[Kind]Strategy
	custom   map[Kind]ResolverFunc
}

// NewResolver returns a resolver whose per-kind defaults come from config.Conflicts.DefaultStrategies
// on top of the built-in ones.
func NewResolver(config *schema.Configuration) *Resolver {
	r := &Resolver{
		config:   config,
		defaults: lo.Assign(builtinDefaults),
		custom:   map[Kind]ResolverFunc{},
	}
	if config == nil {
		return r
	}

	for kindName, strategyName := range config.Conflicts.DefaultStrategies {
		kind, ok := ParseKind(kindName)
		if !ok {
			log.Warn("Ignoring default strategy for unknown conflict kind", "kind", kindName)
			continue
		}
		strategy := ParseStrategy(strategyName)
		if !strategy.Valid() {
			log.Warn("Ignoring unknown default resolution strategy",
				"kind", kindName, "strategy", strategyName, "error", errUtils.ErrUnknownResolutionStrategy)
			continue
		}
		r.defaults[kind] = strategy
	}
	return r
}

// RegisterResolver sets the function the Custom strategy uses for kind.
func (r *Resolver) RegisterResolver(kind Kind, fn ResolverFunc) {
	r.custom[kind] = fn
}

// DefaultStrategy returns the strategy used for kind when none is given.
func (r *Resolver) DefaultStrategy(kind Kind) Strategy {
	if s, ok := r.defaults[kind]; ok {
		return s
	}
	return StrategyUseHigherPriority
}

type resolveOptions struct {
	strategy Strategy
	value    *value.Value
}

// Option configures a single Resolve call.
type Option func(*resolveOptions)

// WithStrategy forces a strategy instead of the per-kind default.
func WithStrategy(s Strategy) Option {
	return func(o *resolveOptions) { o.strategy = s }
}

// WithValue supplies the exact resolution for the Custom strategy.
func WithValue(v value.Value) Option {
	return func(o *resolveOptions) { o.value = &v }
}

// Resolve returns c resolved. Unknown strategies and Custom without a value or resolver fall back
// to UseHigherPriority with a warning.
func (r *Resolver) Resolve(c Conflict, opts ...Option) Conflict {
	defer perf.Track(r.config, "conflict.Resolver.Resolve")()

	o := resolveOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.strategy == "" {
		o.strategy = r.DefaultStrategy(c.Kind)
	}

	strategy, resolution := r.apply(c, o)
	c.Strategy = strategy
	c.Resolution = resolution
	c.IsResolved = true

	log.Debug("Resolved conflict", "kind", c.Kind, "path", c.PathString(),
		"a", c.A.Document, "b", c.B.Document, "strategy", strategy)
	return c
}

func (r *Resolver) apply(c Conflict, o resolveOptions) (Strategy, value.Value) {
	higher, lower := c.Higher().Value, c.Lower().Value

	switch o.strategy {
	case StrategyUseHigherPriority:
		return o.strategy, higher
	case StrategyUseLowerPriority:
		return o.strategy, lower
	case StrategyConcatenate:
		if lower.IsSequence() && higher.IsSequence() {
			return o.strategy, value.Sequence(append(lower.Items(), higher.Items()...)...)
		}
		return StrategyUseHigherPriority, higher
	case StrategyShallowUnion:
		if lower.IsMap() && higher.IsMap() {
			return o.strategy, value.Map(lo.Assign(lower.Fields(), higher.Fields()))
		}
		return StrategyUseHigherPriority, higher
	case StrategyKeepBoth:
		return o.strategy, value.Sequence(c.A.Value, c.B.Value)
	case StrategyCustom:
		if o.value != nil {
			return o.strategy, *o.value
		}
		if fn, ok := r.custom[c.Kind]; ok {
			v, err := fn(c)
			if err == nil {
				return o.strategy, v
			}
			log.Warn("Custom conflict resolver failed, using higher priority value",
				"kind", c.Kind, "path", c.PathString(), "error", err)
			return StrategyUseHigherPriority, higher
		}
		log.Warn("No custom value or resolver for conflict, using higher priority value",
			"kind", c.Kind, "path", c.PathString())
		return StrategyUseHigherPriority, higher
	default:
		log.Warn("Unknown resolution strategy, using higher priority value",
			"strategy", string(o.strategy), "error", errUtils.ErrUnknownResolutionStrategy)
		return StrategyUseHigherPriority, higher
	}
}
