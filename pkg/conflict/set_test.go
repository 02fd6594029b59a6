package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

func TestSet(t *testing.T) {
	set := NewSet()
	set.Add(
		Conflict{Kind: KindValueOverride, A: Side{Document: "a"}, B: Side{Document: "b"}},
		Conflict{Kind: KindValueOverride, A: Side{Document: "a"}, B: Side{Document: "c"}, IsResolved: true},
	)

	other := NewSet()
	other.Add(Conflict{Kind: KindTypeMismatch, A: Side{Document: "c"}, B: Side{Document: "d"}})
	set.Merge(other)
	set.Merge(nil)

	assert.Equal(t, 3, set.Len())
	assert.Len(t, set.Unresolved(), 2)
	assert.Len(t, set.Resolved(), 1)
	assert.Len(t, set.ForDocument("c"), 2)
	assert.Empty(t, set.ForDocument("z"))

	var empty *Set
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.All())
}

func TestApplyResolutions(t *testing.T) {
	target := doc("web", schema.TierProject, map[string]any{"port": 1, "name": "web"})
	set := NewSet()
	set.Add(
		Conflict{Path: []string{"db", "port"}, A: Side{Document: "web"}, Resolution: value.Int(5432), IsResolved: true},
		Conflict{Path: []string{"name", "first"}, A: Side{Document: "web"}, Resolution: value.Int(1), IsResolved: true},
		Conflict{Path: []string{"port"}, A: Side{Document: "web"}, Resolution: value.Int(2)},
		Conflict{Path: []string{"other"}, A: Side{Document: "api"}, Resolution: value.Int(3), IsResolved: true},
	)

	out := ApplyResolutions(target, set)

	require.True(t, out.Content.IsMap())
	assert.True(t, value.MustFrom(map[string]any{
		"port": 1,
		"name": "web",
		"db":   map[string]any{"port": 5432},
	}).Equal(out.Content), "got %#v", out.Content)
	assert.False(t, target.Content.Has("db"))
}

func TestApplyResolutions_SkipsReferenceErrors(t *testing.T) {
	target := doc("web", schema.TierProject, map[string]any{"list": []any{"${config:missing.x}"}})
	placeholder := value.String("${config:missing.x}")
	side := Side{Document: "web", Tier: schema.TierProject, Value: placeholder}

	set := NewSet()
	set.Add(Conflict{
		Kind:       KindReferenceResolutionError,
		Path:       []string{"list", "0"},
		A:          side,
		B:          side,
		Resolution: placeholder,
		IsResolved: true,
	})

	out := ApplyResolutions(target, set)
	assert.True(t, target.Content.Equal(out.Content), "got %#v", out.Content)
}
