// Package reference substitutes ${config:<document>[.<path>]} placeholders in string values
// with values taken from other documents.
package reference

import (
	"regexp"
	"sort"

	"github.com/samber/lo"

	"github.com/cloudposse/tierconf/pkg/value"
)

// Pattern matches one reference. Document names cannot contain '.' or '}'.
var Pattern = regexp.MustCompile(`\$\{config:([^}.]+)(?:\.([^}]+))?\}`)

// Reference is one parsed placeholder.
type Reference struct {
	// Raw is the placeholder text as written.
	Raw      string
	Document string
	// Path is the dotted path inside Document; empty means the whole content.
	Path string
}

// Parse returns the references in s in order of appearance.
func Parse(s string) []Reference {
	matches := Pattern.FindAllStringSubmatch(s, -1)
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, Reference{Raw: m[0], Document: m[1], Path: m[2]})
	}
	return refs
}

// ReferencedDocuments returns the sorted, distinct document names referenced anywhere in v.
func ReferencedDocuments(v value.Value) []string {
	var names []string
	v.Walk(func(_ []string, node value.Value) bool {
		if s, ok := node.AsString(); ok {
			for _, ref := range Parse(s) {
				names = append(names, ref.Document)
			}
		}
		return true
	})
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}
