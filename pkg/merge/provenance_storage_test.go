package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudposse/tierconf/pkg/value"
)

func TestProvenanceStorage(t *testing.T) {
	ps := NewProvenanceStorage()
	ps.Record("db.host", ProvenanceEntry{Document: "acme", Value: value.String("a")})
	ps.Record("db.host", ProvenanceEntry{Document: "payments", Value: value.String("b")})
	ps.Record("db.port", ProvenanceEntry{Document: "acme", Value: value.Int(1)})
	ps.Record("dbx", ProvenanceEntry{Document: "acme", Value: value.Int(2)})

	assert.Equal(t, 3, ps.Size())
	assert.True(t, ps.Has("db.host"))
	assert.Len(t, ps.Get("db.host"), 2)
	assert.Nil(t, ps.Get("missing"))

	latest, ok := ps.GetLatest("db.host")
	assert.True(t, ok)
	assert.Equal(t, "payments", latest.Document)

	got := ps.Get("db.host")
	got[0].Document = "changed"
	assert.Equal(t, "acme", ps.Get("db.host")[0].Document)

	ps.RemoveChildren("db")
	assert.Equal(t, []string{"dbx"}, ps.GetPaths())

	ps.Record("db", ProvenanceEntry{Document: "acme"})
	ps.RemoveTree("db")
	assert.Equal(t, []string{"dbx"}, ps.GetPaths())

	ps.Clear()
	assert.Equal(t, 0, ps.Size())
}

func TestProvenanceStorage_Nil(t *testing.T) {
	var ps *ProvenanceStorage

	ps.Record("a", ProvenanceEntry{})
	ps.RemoveTree("a")
	ps.Clear()
	assert.Nil(t, ps.Get("a"))
	assert.False(t, ps.Has("a"))
	assert.Nil(t, ps.GetPaths())
	assert.Equal(t, 0, ps.Size())
	_, ok := ps.GetLatest("a")
	assert.False(t, ok)
}
