package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	errUtils "github.com/cloudposse/tierconf/errors"
)

// json sorts map keys so compact renderings are deterministic.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	directiveValueKey    = "value"
	directiveStrategyKey = "strategy"
)

// FromInterface converts plain Go data (as produced by YAML/JSON decoders) into a Value.
func FromInterface(in any) (Value, error) {
	return fromInterface(in, false)
}

// FromTree converts plain Go data like FromInterface, and additionally turns
// every map that has exactly the keys "value" and "strategy" (a string) into an override directive.
func FromTree(in any) (Value, error) {
	return fromInterface(in, true)
}

// MustFrom is FromTree that panics on error. Intended for tests and literals.
func MustFrom(in any) Value {
	v, err := FromTree(in)
	if err != nil {
		panic(err)
	}
	return v
}

func fromInterface(in any, directives bool) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := fromInterface(item, directives)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: KindSequence, items: items}, nil
	case map[string]any:
		return fromStringMap(t, directives)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[fmt.Sprint(k)] = item
		}
		return fromStringMap(m, directives)
	}

	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return fromInterface(items, directives)
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return fromStringMap(m, directives)
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromInterface(rv.Elem().Interface(), directives)
	}

	return Value{}, fmt.Errorf("%w: %T", errUtils.ErrUnsupportedValueType, in)
}

func fromStringMap(m map[string]any, directives bool) (Value, error) {
	fields := make(map[string]Value, len(m))
	for k, item := range m {
		v, err := fromInterface(item, directives)
		if err != nil {
			return Value{}, err
		}
		fields[k] = v
	}
	if directives {
		if d, ok := asDirective(fields); ok {
			return d, nil
		}
	}
	return Value{kind: KindMap, fields: fields}, nil
}

// asDirective recognizes the {value, strategy} shape.
func asDirective(fields map[string]Value) (Value, bool) {
	if len(fields) != 2 {
		return Value{}, false
	}
	inner, hasValue := fields[directiveValueKey]
	strategy, hasStrategy := fields[directiveStrategyKey]
	if !hasValue || !hasStrategy {
		return Value{}, false
	}
	name, ok := strategy.AsString()
	if !ok {
		return Value{}, false
	}
	return Override(inner, ParseStrategy(name)), true
}

// Interface converts v into plain Go data: nil, bool, int64 or float64, string, []any, map[string]any.
// Override directives become {value, strategy} maps.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if v.n == math.Trunc(v.n) && math.Abs(v.n) < 1<<53 {
			return int64(v.n)
		}
		return v.n
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.fields))
		for k, f := range v.fields {
			out[k] = f.Interface()
		}
		return out
	case KindOverridden:
		return map[string]any{
			directiveValueKey:    v.Inner().Interface(),
			directiveStrategyKey: string(v.strategy),
		}
	default:
		return nil
	}
}

// Text renders v for substitution into a string: scalars in plain form,
// maps and sequences as compact JSON with sorted keys.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	case KindOverridden:
		return v.Inner().Text()
	default:
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Sprintf("%v", v.Interface())
		}
		return string(b)
	}
}

func (v Value) String() string { return v.Text() }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler; override directives are recognized.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromTree(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// GoString renders a debug form used in test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case KindOverridden:
		return fmt.Sprintf("Override(%s, %s)", v.Inner().GoString(), v.strategy)
	case KindSequence:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.GoString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.fields))
		for k := range v.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.fields[k].GoString()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindString:
		return strconv.Quote(v.s)
	default:
		return v.Text()
	}
}
