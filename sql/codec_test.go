package sql

import (
	"testing"
	"time"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	data, err := Encode(v)
	if err != nil {
		t.Fatalf("Failed to encode %v: %v", v, err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode %v: %v", v, err)
	}
	return decoded
}

// The codec exists because plain JSON collapses the tags. Every tagged
// kind must come back with its tag intact.
func TestCodecPreservesTags(t *testing.T) {
	dec, err := NewDecimal("13.37")
	if err != nil {
		t.Fatalf("Failed to parse decimal: %v", err)
	}
	ts := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value Value
	}{
		{"None", None{}},
		{"Null", Null{}},
		{"Bool", Bool(true)},
		{"Int", Int(-42)},
		{"Float", Float(2.5)},
		{"Decimal", dec},
		{"String", String("hello")},
		{"Duration", Duration(90 * time.Minute)},
		{"Datetime", Datetime(ts)},
		{"RecordID", RecordID{Table: "person", ID: "ada"}},
		{"Point", Point{4.9, 52.4}},
		{"Polygon", Polygon{{{0, 0}, {1, 0}, {0, 1}, {0, 0}}}},
		{"Collection", Collection{Point{1, 2}}},
		{"Nested", Object{
			"who":   RecordID{Table: "person", ID: "ada"},
			"home":  Point{4.9, 52.4},
			"tags":  Array{String("a"), None{}},
			"since": Datetime(ts),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := roundTrip(t, tt.value)
			if decoded.Kind() != tt.value.Kind() {
				t.Fatalf("Tag changed: %v became %v", tt.value.Kind(), decoded.Kind())
			}
			if !Equal(tt.value, decoded) {
				t.Errorf("Value changed: %v became %v", FormatValue(tt.value), FormatValue(decoded))
			}
		})
	}
}

// A geometry and an object of the same shape stay distinct through the
// codec.
func TestCodecGeometryVersusShapedObject(t *testing.T) {
	geom := Point{1, 2}
	shaped := Object{
		"type":        String("Point"),
		"coordinates": Array{Float(1), Float(2)},
	}

	if !IsGeometry(roundTrip(t, geom)) {
		t.Error("Expected geometry to stay geometry")
	}
	decoded := roundTrip(t, shaped)
	if !IsObject(decoded) {
		t.Errorf("Expected shaped object to stay object, got %v", decoded.Kind())
	}
}

func TestCodecDecimalExactness(t *testing.T) {
	dec, err := NewDecimal("0.1")
	if err != nil {
		t.Fatalf("Failed to parse decimal: %v", err)
	}
	decoded := roundTrip(t, dec)
	d, ok := decoded.(Decimal)
	if !ok {
		t.Fatalf("Expected decimal, got %T", decoded)
	}
	if d.String() != "0.1" {
		t.Errorf("Expected exact 0.1, got %s", d.String())
	}
}

func TestFromNative(t *testing.T) {
	v, err := FromNative(map[string]any{
		"name":  "Ada",
		"age":   36,
		"score": 9.5,
		"tags":  []any{"a", "b"},
	})
	if err != nil {
		t.Fatalf("FromNative failed: %v", err)
	}

	obj, ok := v.(Object)
	if !ok {
		t.Fatalf("Expected object, got %T", v)
	}
	if obj["name"] != String("Ada") {
		t.Errorf("Unexpected name: %v", obj["name"])
	}
	if !Equal(obj["age"], Int(36)) {
		t.Errorf("Unexpected age: %v", obj["age"])
	}
	if len(obj["tags"].(Array)) != 2 {
		t.Errorf("Unexpected tags: %v", obj["tags"])
	}
}

// FromNative cannot resurrect tags the representation lost: a
// geometry-shaped map comes back as an object.
func TestFromNativeDoesNotGuessTags(t *testing.T) {
	v, err := FromNative(map[string]any{
		"type":        "Point",
		"coordinates": []any{1.0, 2.0},
	})
	if err != nil {
		t.Fatalf("FromNative failed: %v", err)
	}
	if !IsObject(v) {
		t.Errorf("Expected object, got %v", v.Kind())
	}
}
