package sql

import (
	"encoding/json"
	"fmt"
)

// Geometry is the geometry subtype of Value. Coordinates are
// [longitude, latitude] pairs and are stored exactly as given: rings are
// not auto-closed, winding order is not normalized and repeated closing
// vertices are kept.
type Geometry interface {
	Value
	GeometryType() string
	geometry()
}

// Point is a single coordinate pair, [longitude, latitude].
type Point [2]float64

// Line is an ordered sequence of at least two points.
type Line []Point

// Polygon is an ordered sequence of linear rings. The first ring is the
// exterior, the rest are holes.
type Polygon []Line

type MultiPoint []Point

type MultiLine []Line

type MultiPolygon []Polygon

// Collection is a heterogeneous ordered sequence of geometries.
type Collection []Geometry

func (Point) Kind() Kind        { return KindGeometry }
func (Line) Kind() Kind         { return KindGeometry }
func (Polygon) Kind() Kind      { return KindGeometry }
func (MultiPoint) Kind() Kind   { return KindGeometry }
func (MultiLine) Kind() Kind    { return KindGeometry }
func (MultiPolygon) Kind() Kind { return KindGeometry }
func (Collection) Kind() Kind   { return KindGeometry }

func (Point) value()        {}
func (Line) value()         {}
func (Polygon) value()      {}
func (MultiPoint) value()   {}
func (MultiLine) value()    {}
func (MultiPolygon) value() {}
func (Collection) value()   {}

func (Point) geometry()        {}
func (Line) geometry()         {}
func (Polygon) geometry()      {}
func (MultiPoint) geometry()   {}
func (MultiLine) geometry()    {}
func (MultiPolygon) geometry() {}
func (Collection) geometry()   {}

func (Point) GeometryType() string        { return "Point" }
func (Line) GeometryType() string         { return "Line" }
func (Polygon) GeometryType() string      { return "Polygon" }
func (MultiPoint) GeometryType() string   { return "MultiPoint" }
func (MultiLine) GeometryType() string    { return "MultiLine" }
func (MultiPolygon) GeometryType() string { return "MultiPolygon" }
func (Collection) GeometryType() string   { return "Collection" }

// Valid reports whether g satisfies the shape invariants of its kind.
// This is a shape check only; no geometric computation is performed.
func Valid(g Geometry) bool {
	switch t := g.(type) {
	case Point:
		return true
	case Line:
		return len(t) >= 2
	case Polygon:
		return len(t) >= 1
	case MultiPoint:
		return true
	case MultiLine:
		for _, l := range t {
			if !Valid(l) {
				return false
			}
		}
		return true
	case MultiPolygon:
		for _, p := range t {
			if !Valid(p) {
				return false
			}
		}
		return true
	case Collection:
		for _, g := range t {
			if !Valid(g) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func geometryEqual(a, b Geometry) bool {
	switch av := a.(type) {
	case Point:
		bv, ok := b.(Point)
		return ok && av == bv
	case Line:
		bv, ok := b.(Line)
		return ok && pointsEqual(av, bv)
	case Polygon:
		bv, ok := b.(Polygon)
		return ok && ringsEqual(av, bv)
	case MultiPoint:
		bv, ok := b.(MultiPoint)
		return ok && pointsEqual(Line(av), Line(bv))
	case MultiLine:
		bv, ok := b.(MultiLine)
		return ok && ringsEqual(Polygon(av), Polygon(bv))
	case MultiPolygon:
		bv, ok := b.(MultiPolygon)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ringsEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Collection:
		bv, ok := b.(Collection)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !geometryEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func pointsEqual(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func ringsEqual(a, b []Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !pointsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// geometryNative produces the serialized form: a map with "type" and
// "coordinates" ("geometries" for Collection).
func geometryNative(g Geometry) map[string]any {
	out := map[string]any{"type": g.GeometryType()}
	switch t := g.(type) {
	case Point:
		out["coordinates"] = pairNative(t)
	case Line:
		out["coordinates"] = lineNative(t)
	case Polygon:
		out["coordinates"] = ringsNative(t)
	case MultiPoint:
		out["coordinates"] = lineNative(Line(t))
	case MultiLine:
		out["coordinates"] = ringsNative(Polygon(t))
	case MultiPolygon:
		polys := make([]any, len(t))
		for i, p := range t {
			polys[i] = ringsNative(p)
		}
		out["coordinates"] = polys
	case Collection:
		geoms := make([]any, len(t))
		for i, g := range t {
			geoms[i] = geometryNative(g)
		}
		out["geometries"] = geoms
	}
	return out
}

func pairNative(p Point) []any {
	return []any{p[0], p[1]}
}

func lineNative(l Line) []any {
	out := make([]any, len(l))
	for i, p := range l {
		out[i] = pairNative(p)
	}
	return out
}

func ringsNative(rings []Line) []any {
	out := make([]any, len(rings))
	for i, r := range rings {
		out[i] = lineNative(r)
	}
	return out
}

func (g Point) MarshalJSON() ([]byte, error)        { return json.Marshal(geometryNative(g)) }
func (g Line) MarshalJSON() ([]byte, error)         { return json.Marshal(geometryNative(g)) }
func (g Polygon) MarshalJSON() ([]byte, error)      { return json.Marshal(geometryNative(g)) }
func (g MultiPoint) MarshalJSON() ([]byte, error)   { return json.Marshal(geometryNative(g)) }
func (g MultiLine) MarshalJSON() ([]byte, error)    { return json.Marshal(geometryNative(g)) }
func (g MultiPolygon) MarshalJSON() ([]byte, error) { return json.Marshal(geometryNative(g)) }
func (g Collection) MarshalJSON() ([]byte, error)   { return json.Marshal(geometryNative(g)) }

// GeometryFromJSON parses the serialized form back into a Geometry,
// preserving point and ring order exactly.
func GeometryFromJSON(data []byte) (Geometry, error) {
	var raw struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
		Geometries  []json.RawMessage `json:"geometries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Type {
	case "Point":
		var p Point
		return p, json.Unmarshal(raw.Coordinates, &p)
	case "Line":
		var l Line
		return l, json.Unmarshal(raw.Coordinates, &l)
	case "Polygon":
		var p Polygon
		return p, json.Unmarshal(raw.Coordinates, &p)
	case "MultiPoint":
		var m MultiPoint
		return m, json.Unmarshal(raw.Coordinates, &m)
	case "MultiLine":
		var m MultiLine
		return m, json.Unmarshal(raw.Coordinates, &m)
	case "MultiPolygon":
		var m MultiPolygon
		return m, json.Unmarshal(raw.Coordinates, &m)
	case "Collection":
		col := make(Collection, 0, len(raw.Geometries))
		for _, g := range raw.Geometries {
			parsed, err := GeometryFromJSON(g)
			if err != nil {
				return nil, err
			}
			col = append(col, parsed)
		}
		return col, nil
	default:
		return nil, fmt.Errorf("unknown geometry type %q", raw.Type)
	}
}
