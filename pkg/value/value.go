package value

import (
	"sort"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMap
	KindOverridden
)

var kindNames = map[Kind]string{
	KindNull:       "null",
	KindBool:       "boolean",
	KindNumber:     "number",
	KindString:     "string",
	KindSequence:   "array",
	KindMap:        "object",
	KindOverridden: "override",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Strategy is the merge strategy carried by an override directive.
type Strategy string

const (
	StrategyReplace Strategy = "Replace"
	StrategyExtend  Strategy = "Extend"
	StrategyMerge   Strategy = "Merge"
	StrategyPrepend Strategy = "Prepend"
	StrategyAppend  Strategy = "Append"
)

var knownStrategies = []Strategy{StrategyReplace, StrategyExtend, StrategyMerge, StrategyPrepend, StrategyAppend}

// ParseStrategy normalizes a strategy name case-insensitively.
// Unknown names are returned unchanged so callers can report them.
func ParseStrategy(s string) Strategy {
	for _, known := range knownStrategies {
		if strings.EqualFold(string(known), s) {
			return known
		}
	}
	return Strategy(s)
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	for _, known := range knownStrategies {
		if s == known {
			return true
		}
	}
	return false
}

// Value is a node of a configuration content tree. The zero Value is Null.
type Value struct {
	kind     Kind
	b        bool
	n        float64
	s        string
	items    []Value
	fields   map[string]Value
	inner    *Value
	strategy Strategy
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func Int(i int) Value { return Number(float64(i)) }

func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence returns an ordered sequence holding copies of items.
func Sequence(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindSequence, items: cp}
}

// Map returns a map value holding a copy of fields.
func Map(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{kind: KindMap, fields: cp}
}

// EmptyMap returns a map value with no keys.
func EmptyMap() Value { return Value{kind: KindMap, fields: map[string]Value{}} }

// Override wraps inner in an override directive.
func Override(inner Value, strategy Strategy) Value {
	in := inner
	return Value{kind: KindOverridden, inner: &in, strategy: strategy}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsMap() bool { return v.kind == KindMap }

func (v Value) IsSequence() bool { return v.kind == KindSequence }

func (v Value) IsOverridden() bool { return v.kind == KindOverridden }

// IsScalar reports whether v is a bool, number or string.
func (v Value) IsScalar() bool {
	return v.kind == KindBool || v.kind == KindNumber || v.kind == KindString
}

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Items returns a copy of the sequence items, or nil for non-sequences.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp
}

// Fields returns a copy of the map entries, or nil for non-maps.
func (v Value) Fields() map[string]Value {
	if v.kind != KindMap {
		return nil
	}
	cp := make(map[string]Value, len(v.fields))
	for k, f := range v.fields {
		cp[k] = f
	}
	return cp
}

// Keys returns the sorted keys of a map value.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of items or keys; zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMap:
		return len(v.fields)
	default:
		return 0
	}
}

// Get returns a map entry.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Has reports whether a map value has key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Inner returns the wrapped value of an override directive, or v itself.
func (v Value) Inner() Value {
	if v.kind != KindOverridden || v.inner == nil {
		return v
	}
	return *v.inner
}

// Strategy returns the strategy of an override directive.
func (v Value) Strategy() Strategy { return v.strategy }

// Underlying strips any number of directly nested override directives.
func (v Value) Underlying() Value {
	for v.kind == KindOverridden {
		v = v.Inner()
	}
	return v
}

// Unwrap strips override directives anywhere in the tree.
func (v Value) Unwrap() Value {
	switch v.kind {
	case KindOverridden:
		return v.Inner().Unwrap()
	case KindSequence:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.Unwrap()
		}
		return Value{kind: KindSequence, items: items}
	case KindMap:
		fields := make(map[string]Value, len(v.fields))
		for k, f := range v.fields {
			fields[k] = f.Unwrap()
		}
		return Value{kind: KindMap, fields: fields}
	default:
		return v
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindOverridden:
		return Override(v.Inner().Clone(), v.strategy)
	case KindSequence:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.Clone()
		}
		return Value{kind: KindSequence, items: items}
	case KindMap:
		fields := make(map[string]Value, len(v.fields))
		for k, f := range v.fields {
			fields[k] = f.Clone()
		}
		return Value{kind: KindMap, fields: fields}
	default:
		return v
	}
}

// Equal reports deep structural equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for k, f := range v.fields {
			of, ok := o.fields[k]
			if !ok || !f.Equal(of) {
				return false
			}
		}
		return true
	case KindOverridden:
		return v.strategy == o.strategy && v.Inner().Equal(o.Inner())
	default:
		return false
	}
}

// Walk visits every node depth-first, maps in sorted key order. Returning false stops descent below a node.
func (v Value) Walk(fn func(path []string, node Value) bool) {
	v.walk(nil, fn)
}

func (v Value) walk(path []string, fn func(path []string, node Value) bool) {
	if !fn(path, v) {
		return
	}
	switch v.kind {
	case KindOverridden:
		v.Inner().walk(path, fn)
	case KindSequence:
		for i, item := range v.items {
			item.walk(appendPath(path, indexKey(i)), fn)
		}
	case KindMap:
		for _, k := range v.Keys() {
			v.fields[k].walk(appendPath(path, k), fn)
		}
	}
}

// MapStrings returns a copy of v with fn applied to every string leaf.
func (v Value) MapStrings(fn func(path []string, s string) Value) Value {
	return v.mapStrings(nil, fn)
}

func (v Value) mapStrings(path []string, fn func(path []string, s string) Value) Value {
	switch v.kind {
	case KindString:
		return fn(path, v.s)
	case KindOverridden:
		return Override(v.Inner().mapStrings(path, fn), v.strategy)
	case KindSequence:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.mapStrings(appendPath(path, indexKey(i)), fn)
		}
		return Value{kind: KindSequence, items: items}
	case KindMap:
		fields := make(map[string]Value, len(v.fields))
		for k, f := range v.fields {
			fields[k] = f.mapStrings(appendPath(path, k), fn)
		}
		return Value{kind: KindMap, fields: fields}
	default:
		return v
	}
}
