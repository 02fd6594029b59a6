// Package inherit holds the static graph utilities of the inheritance model: tier precedence
// ordering, the transitive "extends" closure and cycle detection over the "extends" graph.
package inherit

import (
	"sort"

	"github.com/cloudposse/tierconf/pkg/dependency"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/store"
)

// extendsEdges exposes the extends lists of docs as graph edges. Parents that are not in docs are dropped.
func extendsEdges(docs store.Reader) dependency.EdgeFunc {
	return func(name string) []string {
		doc, ok := docs.Get(name)
		if !ok {
			return nil
		}
		parents := make([]string, 0, len(doc.Extends))
		for _, parent := range doc.Extends {
			if _, ok := docs.Get(parent); !ok {
				log.Debug("Ignoring unknown parent in 'extends'", "document", name, "parent", parent)
				continue
			}
			parents = append(parents, parent)
		}
		return parents
	}
}

// PrecedenceOrder returns the document names grouped by tier, most specific tier first.
// Names are sorted within a tier; documents with an unknown tier come last.
func PrecedenceOrder(docs store.Reader) []string {
	defer perf.Track(nil, "inherit.PrecedenceOrder")()

	groups := make(map[schema.Tier][]string, len(schema.Precedence))
	var unknown []string
	for _, name := range docs.Names() {
		doc, _ := docs.Get(name)
		if !doc.Tier.Valid() {
			unknown = append(unknown, name)
			continue
		}
		groups[doc.Tier] = append(groups[doc.Tier], name)
	}

	ordered := make([]string, 0, len(docs.Names()))
	for _, tier := range schema.Precedence {
		names := groups[tier]
		sort.Strings(names)
		ordered = append(ordered, names...)
	}
	return append(ordered, unknown...)
}

// DetectExtendsCycle walks the extends edges depth-first from name and reports true the moment a
// name reappears on the current path. visited holds the names already on the path; pass an empty map.
func DetectExtendsCycle(name string, docs store.Reader, visited map[string]bool) bool {
	defer perf.Track(nil, "inherit.DetectExtendsCycle")()

	if visited == nil {
		visited = map[string]bool{}
	}
	return dependency.DetectCycle(name, extendsEdges(docs), visited)
}

// ExtendsCycle returns the cycle reachable from name, e.g. [a b a], or nil.
func ExtendsCycle(name string, docs store.Reader) []string {
	defer perf.Track(nil, "inherit.ExtendsCycle")()

	return dependency.FindCycle(name, extendsEdges(docs))
}

// AllAncestors returns the transitive closure of extends for name, de-duplicated, in discovery order.
func AllAncestors(name string, docs store.Reader) []string {
	defer perf.Track(nil, "inherit.AllAncestors")()

	return dependency.Discover(name, extendsEdges(docs))
}

// Linearize returns the merge order for name: lowest priority first, every ancestor before its own
// descendants, parents in declared order, name itself last.
func Linearize(name string, docs store.Reader) []string {
	defer perf.Track(nil, "inherit.Linearize")()

	return dependency.PostOrder(name, extendsEdges(docs))
}

// Related reports whether one of a and b extends the other, directly or transitively.
func Related(a, b string, docs store.Reader) bool {
	defer perf.Track(nil, "inherit.Related")()

	if a == b {
		return true
	}
	for _, ancestor := range AllAncestors(a, docs) {
		if ancestor == b {
			return true
		}
	}
	for _, ancestor := range AllAncestors(b, docs) {
		if ancestor == a {
			return true
		}
	}
	return false
}
