package sql

import (
	"fmt"
)

// TypeCastError reports a failed cast, naming the shape that was expected
// and what was found instead.
type TypeCastError struct {
	Into   string
	From   string
	Detail string
}

func (e *TypeCastError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot cast %s into %s: %s", e.From, e.Into, e.Detail)
	}
	return fmt.Sprintf("cannot cast %s into %s", e.From, e.Into)
}

// CastGeometry implements the <geometry> cast. A Geometry passes through
// unchanged. An Object with a recognized "type" and matching "coordinates"
// is converted, deep-copying the coordinate data. Anything else fails.
func CastGeometry(v Value) (Geometry, error) {
	switch t := v.(type) {
	case Geometry:
		return t, nil
	case Object:
		return objectToGeometry(t)
	default:
		kind := "none"
		if v != nil {
			kind = v.Kind().String()
		}
		return nil, &TypeCastError{Into: "geometry", From: kind}
	}
}

// CoerceGeometry performs the same validation and conversion as
// CastGeometry, at a call boundary: operations declared to accept geometry
// apply it to their argument. The caller's stored value keeps its own tag;
// only the converted copy is handed to the operation.
func CoerceGeometry(v Value) (Geometry, error) {
	return CastGeometry(v)
}

func objectToGeometry(obj Object) (Geometry, error) {
	kind, ok := obj["type"].(String)
	if !ok {
		return nil, &TypeCastError{Into: "geometry", From: "object", Detail: "missing type field"}
	}
	if string(kind) == "Collection" {
		geoms, ok := obj["geometries"].(Array)
		if !ok {
			return nil, &TypeCastError{Into: "geometry", From: "object", Detail: "missing geometries field"}
		}
		col := make(Collection, 0, len(geoms))
		for _, e := range geoms {
			g, err := CastGeometry(e)
			if err != nil {
				return nil, err
			}
			col = append(col, g)
		}
		return col, nil
	}

	coords, ok := obj["coordinates"]
	if !ok {
		return nil, &TypeCastError{Into: "geometry", From: "object", Detail: "missing coordinates field"}
	}

	fail := func() error {
		return &TypeCastError{
			Into:   "geometry",
			From:   "object",
			Detail: fmt.Sprintf("coordinates do not match %s", kind),
		}
	}

	switch string(kind) {
	case "Point":
		p, ok := coercePoint(coords)
		if !ok {
			return nil, fail()
		}
		return p, nil
	case "Line":
		l, ok := coerceLine(coords)
		if !ok || len(l) < 2 {
			return nil, fail()
		}
		return l, nil
	case "Polygon":
		rings, ok := coerceRings(coords)
		if !ok {
			return nil, fail()
		}
		return Polygon(rings), nil
	case "MultiPoint":
		l, ok := coerceLine(coords)
		if !ok {
			return nil, fail()
		}
		return MultiPoint(l), nil
	case "MultiLine":
		rings, ok := coerceRings(coords)
		if !ok {
			return nil, fail()
		}
		for _, l := range rings {
			if len(l) < 2 {
				return nil, fail()
			}
		}
		return MultiLine(rings), nil
	case "MultiPolygon":
		arr, ok := coords.(Array)
		if !ok {
			return nil, fail()
		}
		polys := make(MultiPolygon, 0, len(arr))
		for _, e := range arr {
			rings, ok := coerceRings(e)
			if !ok {
				return nil, fail()
			}
			polys = append(polys, Polygon(rings))
		}
		return polys, nil
	default:
		return nil, &TypeCastError{
			Into:   "geometry",
			From:   "object",
			Detail: fmt.Sprintf("unknown geometry type %q", string(kind)),
		}
	}
}

func coerceFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	case Decimal:
		f, _ := n.Decimal().Float64()
		return f, true
	default:
		return 0, false
	}
}

func coercePoint(v Value) (Point, bool) {
	arr, ok := v.(Array)
	if !ok || len(arr) != 2 {
		return Point{}, false
	}
	lng, ok := coerceFloat(arr[0])
	if !ok {
		return Point{}, false
	}
	lat, ok := coerceFloat(arr[1])
	if !ok {
		return Point{}, false
	}
	return Point{lng, lat}, true
}

func coerceLine(v Value) (Line, bool) {
	arr, ok := v.(Array)
	if !ok {
		return nil, false
	}
	line := make(Line, 0, len(arr))
	for _, e := range arr {
		p, ok := coercePoint(e)
		if !ok {
			return nil, false
		}
		line = append(line, p)
	}
	return line, true
}

func coerceRings(v Value) ([]Line, bool) {
	arr, ok := v.(Array)
	if !ok {
		return nil, false
	}
	rings := make([]Line, 0, len(arr))
	for _, e := range arr {
		l, ok := coerceLine(e)
		if !ok {
			return nil, false
		}
		rings = append(rings, l)
	}
	return rings, true
}
