package validate

import (
	"fmt"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

const (
	typeTagKey   = "__type"
	typeValueKey = "value"
)

// TypePredicate reports whether v is of a named type.
type TypePredicate func(v value.Value) bool

func builtinTypes() map[string]TypePredicate {
	kindIs := func(k value.Kind) TypePredicate {
		return func(v value.Value) bool { return v.Underlying().Kind() == k }
	}
	return map[string]TypePredicate{
		"string":  kindIs(value.KindString),
		"number":  kindIs(value.KindNumber),
		"boolean": kindIs(value.KindBool),
		"array":   kindIs(value.KindSequence),
		"object":  kindIs(value.KindMap),
	}
}

// RegisterType adds or replaces the predicate for a __type name.
func (v *Validator) RegisterType(name string, fn TypePredicate) {
	v.types[name] = fn
}

// checkTypes walks the content for maps tagged with __type. The checked value is the map's
// "value" entry when present, otherwise the map without the tag.
func (v *Validator) checkTypes(doc schema.Document, add func(ValidationError)) {
	doc.Content.Walk(func(path []string, node value.Value) bool {
		tag, ok := node.Get(typeTagKey)
		if !ok {
			return true
		}
		name, ok := tag.AsString()
		if !ok {
			add(ValidationError{
				Path:     value.FormatPath(path),
				Message:  fmt.Sprintf("'%s' must be a string, got %s", typeTagKey, tag.Kind()),
				Severity: SeverityWarning,
				Err:      errUtils.ErrUnknownTypeTag,
			})
			return true
		}

		checked, ok := node.Get(typeValueKey)
		if !ok {
			fields := node.Fields()
			delete(fields, typeTagKey)
			checked = value.Map(fields)
		}

		predicate, known := v.types[name]
		switch {
		case !known:
			add(ValidationError{
				Path:     value.FormatPath(path),
				Message:  fmt.Sprintf("unknown type '%s'", name),
				Severity: SeverityWarning,
				Err:      errUtils.ErrUnknownTypeTag,
			})
		case !predicate(checked):
			add(ValidationError{
				Path:    value.FormatPath(path),
				Message: fmt.Sprintf("expected type '%s', got %s", name, checked.Underlying().Kind()),
				Err:     errUtils.ErrTypeCheckFailed,
			})
		}
		return true
	})
}
