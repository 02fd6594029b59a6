package conflict

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

func conflictOf(kind Kind, a, b value.Value) Conflict {
	return Conflict{
		Kind: kind,
		Path: []string{"x"},
		A:    Side{Document: "team", Tier: schema.TierTeam, Value: a},
		B:    Side{Document: "project", Tier: schema.TierProject, Value: b},
	}
}

func TestResolve(t *testing.T) {
	seqA := value.MustFrom([]any{1, 2})
	seqB := value.MustFrom([]any{3})
	mapA := value.MustFrom(map[string]any{"k": "team", "t": 1})
	mapB := value.MustFrom(map[string]any{"k": "project", "p": 2})

	tests := []struct {
		name     string
		conflict Conflict
		opts     []Option
		strategy Strategy
		expected value.Value
	}{
		{
			name:     "value override defaults to higher",
			conflict: conflictOf(KindValueOverride, value.Int(1), value.Int(2)),
			strategy: StrategyUseHigherPriority,
			expected: value.Int(2),
		},
		{
			name:     "type mismatch defaults to higher",
			conflict: conflictOf(KindTypeMismatch, value.String("1"), value.Int(2)),
			strategy: StrategyUseHigherPriority,
			expected: value.Int(2),
		},
		{
			name:     "array conflict concatenates lower first",
			conflict: conflictOf(KindArrayMergeConflict, seqA, seqB),
			strategy: StrategyConcatenate,
			expected: value.MustFrom([]any{1, 2, 3}),
		},
		{
			name:     "object conflict shallow union favors higher",
			conflict: conflictOf(KindObjectMergeConflict, mapA, mapB),
			strategy: StrategyShallowUnion,
			expected: value.MustFrom(map[string]any{"k": "project", "t": 1, "p": 2}),
		},
		{
			name:     "forced lower priority",
			conflict: conflictOf(KindValueOverride, value.Int(1), value.Int(2)),
			opts:     []Option{WithStrategy(StrategyUseLowerPriority)},
			strategy: StrategyUseLowerPriority,
			expected: value.Int(1),
		},
		{
			name:     "keep both in a/b order",
			conflict: conflictOf(KindValueOverride, value.Int(1), value.Int(2)),
			opts:     []Option{WithStrategy(StrategyKeepBoth)},
			strategy: StrategyKeepBoth,
			expected: value.MustFrom([]any{1, 2}),
		},
		{
			name:     "custom value",
			conflict: conflictOf(KindValueOverride, value.Int(1), value.Int(2)),
			opts:     []Option{WithStrategy(StrategyCustom), WithValue(value.Int(42))},
			strategy: StrategyCustom,
			expected: value.Int(42),
		},
		{
			name:     "custom without value or resolver falls back",
			conflict: conflictOf(KindValueOverride, value.Int(1), value.Int(2)),
			opts:     []Option{WithStrategy(StrategyCustom)},
			strategy: StrategyUseHigherPriority,
			expected: value.Int(2),
		},
		{
			name:     "unknown strategy falls back",
			conflict: conflictOf(KindValueOverride, value.Int(1), value.Int(2)),
			opts:     []Option{WithStrategy("Coinflip")},
			strategy: StrategyUseHigherPriority,
			expected: value.Int(2),
		},
		{
			name:     "concatenate on scalars falls back",
			conflict: conflictOf(KindValueOverride, value.Int(1), value.Int(2)),
			opts:     []Option{WithStrategy(StrategyConcatenate)},
			strategy: StrategyUseHigherPriority,
			expected: value.Int(2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := NewResolver(nil).Resolve(tt.conflict, tt.opts...)
			assert.True(t, resolved.IsResolved)
			assert.Equal(t, tt.strategy, resolved.Strategy)
			assert.True(t, tt.expected.Equal(resolved.Resolution), "got %#v", resolved.Resolution)
			assert.False(t, tt.conflict.IsResolved)
		})
	}
}

func TestResolve_RegisteredResolver(t *testing.T) {
	r := NewResolver(nil)
	r.RegisterResolver(KindValueOverride, func(c Conflict) (value.Value, error) {
		a, _ := c.A.Value.AsNumber()
		b, _ := c.B.Value.AsNumber()
		return value.Number(a + b), nil
	})
	r.RegisterResolver(KindTypeMismatch, func(Conflict) (value.Value, error) {
		return value.Null(), errors.New("cannot decide")
	})

	resolved := r.Resolve(conflictOf(KindValueOverride, value.Int(1), value.Int(2)), WithStrategy(StrategyCustom))
	assert.Equal(t, StrategyCustom, resolved.Strategy)
	assert.Equal(t, value.Int(3), resolved.Resolution)

	failed := r.Resolve(conflictOf(KindTypeMismatch, value.Int(1), value.String("2")), WithStrategy(StrategyCustom))
	assert.Equal(t, StrategyUseHigherPriority, failed.Strategy)
	assert.Equal(t, value.String("2"), failed.Resolution)
}

func TestNewResolver_ConfiguredDefaults(t *testing.T) {
	cfg := &schema.Configuration{
		Conflicts: schema.ConflictsConfig{DefaultStrategies: map[string]string{
			"valueoverride":      "uselowerpriority",
			"ArrayMergeConflict": "Bogus",
			"NoSuchKind":         "KeepBoth",
		}},
	}
	r := NewResolver(cfg)

	assert.Equal(t, StrategyUseLowerPriority, r.DefaultStrategy(KindValueOverride))
	assert.Equal(t, StrategyConcatenate, r.DefaultStrategy(KindArrayMergeConflict))
	assert.Equal(t, StrategyShallowUnion, r.DefaultStrategy(KindObjectMergeConflict))
	// The built-in table is not modified.
	assert.Equal(t, StrategyUseHigherPriority, NewResolver(nil).DefaultStrategy(KindValueOverride))
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategyKeepBoth, ParseStrategy("keepboth"))
	assert.False(t, ParseStrategy("nope").Valid())
	kind, ok := ParseKind("typemismatch")
	assert.True(t, ok)
	assert.Equal(t, KindTypeMismatch, kind)
}
