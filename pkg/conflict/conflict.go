// Package conflict detects disagreements between documents that do not inherit from each other
// and resolves them by tier precedence or by an explicit strategy.
package conflict

import (
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

// Kind classifies a conflict.
type Kind string

const (
	KindTypeMismatch             Kind = "TypeMismatch"
	KindValueOverride            Kind = "ValueOverride"
	KindArrayMergeConflict       Kind = "ArrayMergeConflict"
	KindObjectMergeConflict      Kind = "ObjectMergeConflict"
	KindReferenceResolutionError Kind = "ReferenceResolutionError"
)

// Kinds lists every conflict kind.
var Kinds = []Kind{
	KindTypeMismatch,
	KindValueOverride,
	KindArrayMergeConflict,
	KindObjectMergeConflict,
	KindReferenceResolutionError,
}

// Side is one document's view of a conflicting path.
type Side struct {
	Document string      `yaml:"document" json:"document"`
	Tier     schema.Tier `yaml:"tier" json:"tier"`
	Value    value.Value `yaml:"value" json:"value"`
}

// Conflict is a disagreement between documents A and B at Path.
type Conflict struct {
	Kind Kind     `yaml:"kind" json:"kind"`
	Path []string `yaml:"path" json:"path"`
	A    Side     `yaml:"a" json:"a"`
	B    Side     `yaml:"b" json:"b"`

	Strategy   Strategy    `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Resolution value.Value `yaml:"resolution" json:"resolution"`
	IsResolved bool        `yaml:"resolved" json:"resolved"`
}

// PathString renders Path dotted.
func (c Conflict) PathString() string {
	return value.FormatPath(c.Path)
}

// Involves reports whether name is one of the two documents.
func (c Conflict) Involves(name string) bool {
	return c.A.Document == name || c.B.Document == name
}

// Higher returns the side whose tier wins. On a tie A wins.
func (c Conflict) Higher() Side {
	if schema.Outranks(c.B.Tier, c.A.Tier) {
		return c.B
	}
	return c.A
}

// Lower returns the side that Higher does not.
func (c Conflict) Lower() Side {
	if schema.Outranks(c.B.Tier, c.A.Tier) {
		return c.A
	}
	return c.B
}

// Detect compares the content of a and b path by path. Override directives are ignored.
func Detect(a, b schema.Document) []Conflict {
	defer perf.Track(nil, "conflict.Detect")()

	var out []Conflict
	detect(&out, nil, a, b, a.Content.Unwrap(), b.Content.Unwrap())
	return out
}

func detect(out *[]Conflict, path []string, a, b schema.Document, av, bv value.Value) {
	add := func(kind Kind) {
		*out = append(*out, Conflict{
			Kind: kind,
			Path: append([]string(nil), path...),
			A:    Side{Document: a.Name, Tier: a.Tier, Value: av},
			B:    Side{Document: b.Name, Tier: b.Tier, Value: bv},
		})
	}

	switch {
	case av.Kind() != bv.Kind():
		add(KindTypeMismatch)
	case av.IsSequence():
		if av.Len() > 0 && bv.Len() > 0 {
			add(KindArrayMergeConflict)
		}
	case av.IsMap():
		for _, key := range av.Keys() {
			bChild, ok := bv.Get(key)
			if !ok {
				continue
			}
			aChild, _ := av.Get(key)
			detect(out, append(path, key), a, b, aChild, bChild)
		}
	case !av.Equal(bv):
		add(KindValueOverride)
	}
}
