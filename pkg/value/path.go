package value

import (
	"fmt"
	"strconv"
	"strings"

	errUtils "github.com/cloudposse/tierconf/errors"
)

// ParsePath splits a dotted path. An empty string is the root path.
func ParsePath(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// FormatPath joins path segments with dots; the root path renders as "$".
func FormatPath(path []string) string {
	if len(path) == 0 {
		return "$"
	}
	return strings.Join(path, ".")
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}

// Lookup navigates maps by key and sequences by numeric index.
// Override directives along the way are looked through.
func (v Value) Lookup(path []string) (Value, bool) {
	current := v.Underlying()
	for _, key := range path {
		switch current.kind {
		case KindMap:
			next, ok := current.fields[key]
			if !ok {
				return Value{}, false
			}
			current = next.Underlying()
		case KindSequence:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(current.items) {
				return Value{}, false
			}
			current = current.items[i].Underlying()
		default:
			return Value{}, false
		}
	}
	return current, true
}

// SetPath returns a copy of v with the value at path replaced by nv.
// Missing or null intermediate levels become maps; any other non-map intermediate is an error.
func (v Value) SetPath(path []string, nv Value) (Value, error) {
	if len(path) == 0 {
		return Value{}, errUtils.ErrEmptyPath
	}
	return v.setPath(path, 0, nv)
}

func (v Value) setPath(path []string, depth int, nv Value) (Value, error) {
	base := v.Underlying()
	switch base.kind {
	case KindNull:
		base = EmptyMap()
	case KindMap:
	default:
		return Value{}, fmt.Errorf("%w: path=%s field=%s kind=%s",
			errUtils.ErrCannotNavigatePath, FormatPath(path), path[depth], base.kind)
	}

	fields := base.Fields()
	key := path[depth]
	if depth == len(path)-1 {
		fields[key] = nv
		return Value{kind: KindMap, fields: fields}, nil
	}

	child, err := fields[key].setPath(path, depth+1, nv)
	if err != nil {
		return Value{}, err
	}
	fields[key] = child
	return Value{kind: KindMap, fields: fields}, nil
}
