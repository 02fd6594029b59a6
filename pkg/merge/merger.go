package merge

import (
	"github.com/samber/lo"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/inherit"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/store"
	"github.com/cloudposse/tierconf/pkg/value"
)

// Merger computes the merged form of a document from its inheritance chain.
type Merger struct {
	config *schema.Configuration
	docs   store.Reader
}

func NewMerger(config *schema.Configuration, docs store.Reader) *Merger {
	return &Merger{config: config, docs: docs}
}

// MergeConfiguration merges name with all of its ancestors.
func (m *Merger) MergeConfiguration(name string) (schema.Document, error) {
	return m.MergeConfigurationWithContext(nil, name)
}

// MergeConfigurationWithContext is MergeConfiguration with provenance recorded into ctx when enabled.
// The chain is folded lowest priority first, so every ancestor is applied before its descendants.
func (m *Merger) MergeConfigurationWithContext(ctx *MergeContext, name string) (schema.Document, error) {
	defer perf.Track(m.config, "merge.Merger.MergeConfiguration")()

	if _, ok := m.docs.Get(name); !ok {
		err := errUtils.Build(errUtils.ErrDocumentNotFound).
			WithHintf("Check that a document named `%s` exists under the base path", name).
			WithContext("document", name).
			Err()
		log.Error("Cannot merge configuration", "document", name, "error", err)
		return schema.Document{}, err
	}

	if inherit.DetectExtendsCycle(name, m.docs, map[string]bool{}) {
		cycle := inherit.ExtendsCycle(name, m.docs)
		err := errUtils.Build(errUtils.ErrExtendsCycleDetected).
			WithHintf("Break the cycle %v by removing one of the `extends` entries", cycle).
			WithContext("document", name).
			WithContext("cycle", cycle).
			Err()
		log.Error("Circular inheritance", "document", name, "cycle", cycle)
		return schema.Document{}, err
	}

	order := inherit.Linearize(name, m.docs)
	log.Trace("Merging inheritance chain", "document", name, "order", order)

	var merged schema.Document
	for i, docName := range order {
		doc, _ := m.docs.Get(docName)
		ctx.recordDocument(doc)
		if i == 0 {
			warnUnknownStrategies(doc)
			merged = doc.Clone()
			continue
		}
		merged = mergeDocuments(merged, doc)
	}

	merged.Content = merged.Content.Unwrap()
	return merged, nil
}

// warnUnknownStrategies reports directives of the chain root, which never reach DeepMerge as a source.
func warnUnknownStrategies(doc schema.Document) {
	doc.Content.Walk(func(path []string, node value.Value) bool {
		if node.IsOverridden() && !node.Strategy().Valid() {
			log.Warn("Unknown override strategy, using Replace",
				"document", doc.Name, "path", path,
				"strategy", string(node.Strategy()), "error", errUtils.ErrUnknownMergeStrategy)
		}
		return true
	})
}

// mergeDocuments returns a new document with higher merged over lower. Identity fields come from higher.
func mergeDocuments(lower, higher schema.Document) schema.Document {
	return schema.Document{
		Name:    higher.Name,
		Tier:    higher.Tier,
		Origin:  higher.Origin,
		Extends: lo.Uniq(append(append([]string{}, lower.Extends...), higher.Extends...)),
		Content: DeepMerge(lower.Content, higher.Content),
	}
}
