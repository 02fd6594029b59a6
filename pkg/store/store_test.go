package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/schema"
)

func docs() []schema.Document {
	return []schema.Document{
		{Name: "org", Tier: schema.TierOrganization, Origin: "org.yaml"},
		{Name: "team", Tier: schema.TierTeam, Extends: []string{"org"}, Origin: "team.yaml"},
	}
}

func TestDocumentStore_GetAndLookup(t *testing.T) {
	s, err := New(docs()...)
	require.NoError(t, err)

	doc, ok := s.Get("team")
	require.True(t, ok)
	assert.Equal(t, schema.TierTeam, doc.Tier)

	_, err = s.Lookup("missing")
	assert.ErrorIs(t, err, errUtils.ErrDocumentNotFound)

	assert.Equal(t, []string{"org", "team"}, s.Names())
	assert.Equal(t, 2, s.Len())
}

func TestDocumentStore_DuplicateNames(t *testing.T) {
	d := docs()
	d = append(d, schema.Document{Name: "org", Origin: "other.yaml"})

	_, err := New(d...)
	assert.ErrorIs(t, err, errUtils.ErrDuplicateDocument)
	assert.Contains(t, err.Error(), "other.yaml")
}

func TestDocumentStore_ReplaceKeepsOldContentOnError(t *testing.T) {
	s, err := New(docs()...)
	require.NoError(t, err)

	err = s.Replace([]schema.Document{{Name: "a"}, {Name: "a"}})
	require.Error(t, err)
	assert.Equal(t, []string{"org", "team"}, s.Names())

	require.NoError(t, s.Replace([]schema.Document{{Name: "only"}}))
	assert.Equal(t, []string{"only"}, s.Names())
}

func TestDocumentStore_SnapshotIsIsolated(t *testing.T) {
	s, err := New(docs()...)
	require.NoError(t, err)

	snap := s.Snapshot()
	require.NoError(t, s.Replace(nil))

	_, ok := snap.Get("org")
	assert.True(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestDocumentStore_ConcurrentAccess(t *testing.T) {
	s, err := New(docs()...)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Replace(docs())
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get("org")
			_ = s.Names()
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, s.Len())
}

func TestSnapshot(t *testing.T) {
	snap := Of(docs()...)
	assert.Equal(t, []string{"org", "team"}, snap.Names())

	extended := snap.With(schema.Document{Name: "project", Tier: schema.TierProject})
	assert.Len(t, extended, 3)
	assert.Len(t, snap, 2)
}
