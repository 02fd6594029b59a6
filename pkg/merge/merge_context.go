package merge

import (
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

// MergeContext carries optional per-merge bookkeeping. A nil context disables it.
type MergeContext struct {
	Provenance *ProvenanceStorage
}

// NewMergeContext returns a context that records provenance.
func NewMergeContext() *MergeContext {
	return &MergeContext{Provenance: NewProvenanceStorage()}
}

func (c *MergeContext) IsProvenanceEnabled() bool {
	return c != nil && c.Provenance != nil
}

// recordDocument records every leaf doc sets. Leaves are scalars and whole sequences.
// A Replace directive or a new leaf discards what was recorded below its path.
func (c *MergeContext) recordDocument(doc schema.Document) {
	if !c.IsProvenanceEnabled() {
		return
	}

	doc.Content.Walk(func(path []string, node value.Value) bool {
		if len(path) == 0 {
			return true
		}
		key := value.FormatPath(path)

		switch {
		case node.IsOverridden():
			if node.Strategy() == value.StrategyReplace {
				c.Provenance.RemoveTree(key)
			}
			return true
		case node.IsMap():
			// Only leaves are recorded; a map replacing a leaf drops the leaf's chain.
			if c.Provenance.Has(key) {
				c.Provenance.RemoveTree(key)
			}
			return true
		case node.IsNull():
			return false
		default:
			c.Provenance.RemoveChildren(key)
			c.Provenance.Record(key, ProvenanceEntry{
				Document: doc.Name,
				Tier:     doc.Tier,
				Origin:   doc.Origin,
				Value:    node.Unwrap(),
			})
			return false
		}
	})
}
