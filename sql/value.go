package sql

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind identifies the tag of a Value. The tag is authoritative: predicates
// and extraction look at the tag only, never at the shape of the data.
type Kind int

const (
	KindNone Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindDuration
	KindDatetime
	KindRecordID
	KindArray
	KindObject
	KindGeometry
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDuration:
		return "duration"
	case KindDatetime:
		return "datetime"
	case KindRecordID:
		return "record"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// Value is the dynamically-tagged representation exchanged between the
// query engine and callers. The sum is closed: only types in this package
// implement it.
type Value interface {
	Kind() Kind
	value()
}

// None is the absent value. It is distinct from Null: None means "no value
// here at all" and doubles as the deletion sentinel inside merge patches.
type None struct{}

// Null is an explicit null.
type Null struct{}

type Bool bool

type String string

type Duration time.Duration

type Datetime time.Time

// Array is an ordered sequence of values. Duplicates are allowed.
type Array []Value

// Object maps unique string keys to values. Key order carries no meaning.
type Object map[string]Value

func (None) Kind() Kind     { return KindNone }
func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (String) Kind() Kind   { return KindString }
func (Duration) Kind() Kind { return KindDuration }
func (Datetime) Kind() Kind { return KindDatetime }
func (Array) Kind() Kind    { return KindArray }
func (Object) Kind() Kind   { return KindObject }

func (None) value()     {}
func (Null) value()     {}
func (Bool) value()     {}
func (String) value()   {}
func (Duration) value() {}
func (Datetime) value() {}
func (Array) value()    {}
func (Object) value()   {}

// Tag predicates. These reflect the current tag only; an Object that is
// shaped like a geometry still answers false to IsGeometry until it is
// explicitly cast.

func IsNone(v Value) bool     { _, ok := v.(None); return ok }
func IsNull(v Value) bool     { _, ok := v.(Null); return ok }
func IsBool(v Value) bool     { _, ok := v.(Bool); return ok }
func IsString(v Value) bool   { _, ok := v.(String); return ok }
func IsDuration(v Value) bool { _, ok := v.(Duration); return ok }
func IsDatetime(v Value) bool { _, ok := v.(Datetime); return ok }
func IsRecordID(v Value) bool { _, ok := v.(RecordID); return ok }
func IsArray(v Value) bool    { _, ok := v.(Array); return ok }
func IsObject(v Value) bool   { _, ok := v.(Object); return ok }

func IsNumber(v Value) bool {
	return v != nil && v.Kind() == KindNumber
}

func IsGeometry(v Value) bool {
	return v != nil && v.Kind() == KindGeometry
}

// Equal reports deep structural equality. Numbers compare by magnitude
// across the integer, float and decimal representations.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() == KindNumber && b.Kind() == KindNumber {
		return numberEqual(a, b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case None, Null:
		return true
	case Bool:
		return av == b.(Bool)
	case String:
		return av == b.(String)
	case Duration:
		return av == b.(Duration)
	case Datetime:
		return time.Time(av).Equal(time.Time(b.(Datetime)))
	case RecordID:
		return av == b.(RecordID)
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv := b.(Object)
		if len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			ov, ok := bv[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	default:
		if ag, ok := a.(Geometry); ok {
			return geometryEqual(ag, b.(Geometry))
		}
		return false
	}
}

// Copy returns a deep copy of v. Scalars are returned as-is.
func Copy(v Value) Value {
	switch t := v.(type) {
	case Array:
		out := make(Array, len(t))
		for i, e := range t {
			out[i] = Copy(e)
		}
		return out
	case Object:
		out := make(Object, len(t))
		for k, e := range t {
			out[k] = Copy(e)
		}
		return out
	default:
		return v
	}
}

// Native converts v into plain Go data: maps, slices, scalars. Record ids
// render in their table:id form and geometries as their serialized shape.
func Native(v Value) any {
	switch t := v.(type) {
	case nil, None, Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case Decimal:
		return t.Decimal()
	case String:
		return string(t)
	case Duration:
		return time.Duration(t)
	case Datetime:
		return time.Time(t)
	case RecordID:
		return t.String()
	case Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Native(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Native(e)
		}
		return out
	case Geometry:
		return geometryNative(t)
	default:
		return nil
	}
}

func (None) MarshalJSON() ([]byte, error) { return []byte("null"), nil }
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Datetime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.RFC3339Nano))
}

// FormatValue renders v in query-language syntax, for display and logs.
func FormatValue(v Value) string {
	switch t := v.(type) {
	case nil, None:
		return "NONE"
	case Null:
		return "NULL"
	case Bool:
		if t {
			return "true"
		}
		return "false"
	case Int, Float, Decimal:
		return formatNumber(t)
	case String:
		return fmt.Sprintf("%q", string(t))
	case Duration:
		return time.Duration(t).String()
	case Datetime:
		return fmt.Sprintf("d%q", time.Time(t).Format(time.RFC3339Nano))
	case RecordID:
		return t.String()
	case Array:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Object:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, FormatValue(t[k]))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case Geometry:
		data, err := json.Marshal(t)
		if err != nil {
			return "<geometry>"
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
