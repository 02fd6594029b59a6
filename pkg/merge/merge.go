// Package merge folds configuration documents along their inheritance chain.
package merge

import (
	"github.com/samber/lo"

	errUtils "github.com/cloudposse/tierconf/errors"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/value"
)

// DeepMerge merges source over target and returns a new tree. Neither input is modified.
//
// An override directive on the source side decides how its inner value combines with the target.
// A directive on the target side has already been applied, so only its inner value is used.
// Without directives, sequences concatenate (target first), maps merge key by key and anything
// else is replaced by source. Null on either side counts as absent.
func DeepMerge(target, source value.Value) value.Value {
	defer perf.Track(nil, "merge.DeepMerge")()

	return deepMerge(target, source)
}

func deepMerge(target, source value.Value) value.Value {
	target = target.Underlying()

	if source.IsOverridden() {
		return applyDirective(target, source)
	}

	switch {
	case source.IsNull():
		return target
	case target.IsNull():
		return source
	case target.IsSequence() && source.IsSequence():
		return concat(target, source)
	case target.IsMap() && source.IsMap():
		return mergeMaps(target, source)
	default:
		return source
	}
}

func applyDirective(target, directive value.Value) value.Value {
	inner := directive.Inner()
	base := inner.Underlying()

	switch directive.Strategy() {
	case value.StrategyReplace:
		return inner
	case value.StrategyExtend:
		switch {
		case target.IsSequence() && base.IsSequence():
			return concat(target, base)
		case target.IsMap() && base.IsMap():
			return value.Map(lo.Assign(target.Fields(), base.Fields()))
		}
		return inner
	case value.StrategyMerge:
		if target.IsMap() && base.IsMap() {
			return mergeMaps(target, base)
		}
		return inner
	case value.StrategyPrepend:
		if target.IsSequence() && base.IsSequence() {
			return concat(base, target)
		}
		return inner
	case value.StrategyAppend:
		if target.IsSequence() && base.IsSequence() {
			return concat(target, base)
		}
		return inner
	default:
		log.Warn("Unknown override strategy, using Replace",
			"strategy", string(directive.Strategy()), "error", errUtils.ErrUnknownMergeStrategy)
		return inner
	}
}

func concat(first, second value.Value) value.Value {
	items := make([]value.Value, 0, first.Len()+second.Len())
	items = append(items, first.Items()...)
	items = append(items, second.Items()...)
	return value.Sequence(items...)
}

func mergeMaps(target, source value.Value) value.Value {
	fields := target.Fields()
	for key, sv := range source.Fields() {
		tv, ok := fields[key]
		if !ok {
			// A directive with nothing beneath it still resolves to its inner value.
			fields[key] = deepMerge(value.Null(), sv)
			continue
		}
		fields[key] = deepMerge(tv, sv)
	}
	return value.Map(fields)
}
