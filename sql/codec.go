package sql

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/shopspring/decimal"
)

// Storage and wire encoding. Plain JSON cannot carry the value tags: a
// geometry and an object of the same shape would collapse into one. The
// codec wraps the ambiguous kinds in CBOR tags so every value round-trips
// with its tag intact.
const (
	tagNone     = 60001
	tagRecordID = 60002
	tagDecimal  = 60003
	tagDuration = 60004
	tagDatetime = 60005
	tagGeometry = 60006
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// Encode serializes v into tagged CBOR.
func Encode(v Value) ([]byte, error) {
	return encMode.Marshal(rawFromValue(v))
}

// Decode reverses Encode.
func Decode(data []byte) (Value, error) {
	var raw any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return valueFromRaw(raw)
}

// FromNative converts plain Go data, such as Native produces or JSON
// decoding yields, into a Value. Tags lost by the representation stay
// lost: a geometry-shaped map comes back as an Object.
func FromNative(raw any) (Value, error) {
	return valueFromRaw(raw)
}

func rawFromValue(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case None:
		return cbor.Tag{Number: tagNone, Content: nil}
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case Decimal:
		return cbor.Tag{Number: tagDecimal, Content: t.String()}
	case String:
		return string(t)
	case Duration:
		return cbor.Tag{Number: tagDuration, Content: int64(t)}
	case Datetime:
		return cbor.Tag{Number: tagDatetime, Content: time.Time(t).Format(time.RFC3339Nano)}
	case RecordID:
		return cbor.Tag{Number: tagRecordID, Content: []any{t.Table, t.ID}}
	case Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = rawFromValue(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = rawFromValue(e)
		}
		return out
	case Geometry:
		return cbor.Tag{Number: tagGeometry, Content: geometryNative(t)}
	default:
		return nil
	}
}

func valueFromRaw(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint64:
		return Int(int64(t)), nil
	case float32:
		return Float(t), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case time.Duration:
		return Duration(t), nil
	case time.Time:
		return Datetime(t), nil
	case decimal.Decimal:
		return Decimal(t), nil
	case []any:
		out := make(Array, len(t))
		for i, e := range t {
			v, err := valueFromRaw(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[any]any:
		out := make(Object, len(t))
		for k, e := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string object key %v", k)
			}
			v, err := valueFromRaw(e)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	case map[string]any:
		out := make(Object, len(t))
		for k, e := range t {
			v, err := valueFromRaw(e)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case cbor.Tag:
		return valueFromTag(t)
	default:
		return nil, fmt.Errorf("unsupported encoded type %T", raw)
	}
}

func valueFromTag(tag cbor.Tag) (Value, error) {
	switch tag.Number {
	case tagNone:
		return None{}, nil
	case tagDecimal:
		s, ok := tag.Content.(string)
		if !ok {
			return nil, fmt.Errorf("malformed decimal tag")
		}
		return NewDecimal(s)
	case tagDuration:
		switch n := tag.Content.(type) {
		case int64:
			return Duration(n), nil
		case uint64:
			return Duration(int64(n)), nil
		}
		return nil, fmt.Errorf("malformed duration tag")
	case tagDatetime:
		s, ok := tag.Content.(string)
		if !ok {
			return nil, fmt.Errorf("malformed datetime tag")
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
		return Datetime(ts), nil
	case tagRecordID:
		parts, ok := tag.Content.([]any)
		if !ok || len(parts) != 2 {
			return nil, fmt.Errorf("malformed record id tag")
		}
		table, ok1 := parts[0].(string)
		id, ok2 := parts[1].(string)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("malformed record id tag")
		}
		return RecordID{Table: table, ID: id}, nil
	case tagGeometry:
		obj, err := valueFromRaw(tag.Content)
		if err != nil {
			return nil, err
		}
		shape, ok := obj.(Object)
		if !ok {
			return nil, fmt.Errorf("malformed geometry tag")
		}
		return objectToGeometry(shape)
	default:
		return nil, fmt.Errorf("unknown value tag %d", tag.Number)
	}
}
