package inherit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/store"
)

func doc(name string, tier schema.Tier, extends ...string) schema.Document {
	return schema.Document{Name: name, Tier: tier, Extends: extends}
}

func TestPrecedenceOrder(t *testing.T) {
	docs := store.Of(
		doc("acme", schema.TierOrganization),
		doc("platform", schema.TierTeam),
		doc("web", schema.TierProject),
		doc("api", schema.TierProject),
		doc("orphan", ""),
	)

	assert.Equal(t, []string{"api", "web", "platform", "acme", "orphan"}, PrecedenceOrder(docs))
}

func TestDetectExtendsCycle(t *testing.T) {
	tests := []struct {
		name     string
		docs     store.Snapshot
		start    string
		expected bool
	}{
		{
			name:     "direct self extension",
			docs:     store.Of(doc("X", schema.TierProject, "X")),
			start:    "X",
			expected: true,
		},
		{
			name:     "indirect cycle",
			docs:     store.Of(doc("A", schema.TierProject, "B"), doc("B", schema.TierTeam, "A")),
			start:    "B",
			expected: true,
		},
		{
			name: "shared ancestor on two branches",
			docs: store.Of(
				doc("app", schema.TierProject, "team-a", "team-b"),
				doc("team-a", schema.TierTeam, "org"),
				doc("team-b", schema.TierTeam, "org"),
				doc("org", schema.TierOrganization),
			),
			start:    "app",
			expected: false,
		},
		{
			name:     "unknown parent",
			docs:     store.Of(doc("app", schema.TierProject, "missing")),
			start:    "app",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectExtendsCycle(tt.start, tt.docs, map[string]bool{}))
		})
	}
}

func TestDetectExtendsCycle_NilVisited(t *testing.T) {
	docs := store.Of(doc("X", schema.TierProject, "X"))
	assert.True(t, DetectExtendsCycle("X", docs, nil))
}

func TestExtendsCycle(t *testing.T) {
	docs := store.Of(doc("A", schema.TierProject, "B"), doc("B", schema.TierTeam, "A"))
	assert.Equal(t, []string{"A", "B", "A"}, ExtendsCycle("A", docs))
	assert.Nil(t, ExtendsCycle("A", store.Of(doc("A", schema.TierProject))))
}

func TestAllAncestorsAndLinearize(t *testing.T) {
	docs := store.Of(
		doc("app", schema.TierProject, "team", "security"),
		doc("team", schema.TierTeam, "org"),
		doc("security", schema.TierTeam, "org"),
		doc("org", schema.TierOrganization),
	)

	assert.Equal(t, []string{"team", "org", "security"}, AllAncestors("app", docs))
	assert.Equal(t, []string{"org", "team", "security", "app"}, Linearize("app", docs))
	assert.Empty(t, AllAncestors("org", docs))
	assert.Equal(t, []string{"org"}, Linearize("org", docs))
}

func TestRelated(t *testing.T) {
	docs := store.Of(
		doc("app", schema.TierProject, "team"),
		doc("team", schema.TierTeam, "org"),
		doc("org", schema.TierOrganization),
		doc("other", schema.TierProject),
	)

	assert.True(t, Related("app", "org", docs))
	assert.True(t, Related("org", "app", docs))
	assert.True(t, Related("app", "app", docs))
	assert.False(t, Related("app", "other", docs))
	assert.False(t, Related("team", "other", docs))
}
