package conflict

import (
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
)

// ApplyResolutions writes every resolved conflict involving doc into a copy of its content.
// A conflict at the root path replaces the whole content; a path that cannot be navigated is skipped.
// Reference resolution errors keep the placeholder and are never written back.
func ApplyResolutions(doc schema.Document, set *Set) schema.Document {
	defer perf.Track(nil, "conflict.ApplyResolutions")()

	content := doc.Content.Clone()
	for _, c := range set.Resolved() {
		if !c.Involves(doc.Name) || c.Kind == KindReferenceResolutionError {
			continue
		}
		if len(c.Path) == 0 {
			content = c.Resolution
			continue
		}
		updated, err := content.SetPath(c.Path, c.Resolution)
		if err != nil {
			log.Warn("Cannot apply conflict resolution", "document", doc.Name, "path", c.PathString(), "error", err)
			continue
		}
		content = updated
	}
	return doc.WithContent(content)
}
