package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/harborne/LagoonDB/sql"
)

// eval reduces an expression to a value. row carries the record under
// evaluation for field references; it is nil outside statement bodies.
func (e *Engine) eval(expr sql.Expr, row sql.Value) (sql.Value, error) {
	switch t := expr.(type) {
	case sql.LiteralExpr:
		return t.Value, nil
	case sql.ParamExpr:
		if v, ok := e.params[t.Name]; ok {
			return v, nil
		}
		return sql.None{}, nil
	case sql.IdentExpr:
		if row == nil {
			return nil, fmt.Errorf("unknown identifier: %s", t.Name)
		}
		return fieldOf(row, t.Name), nil
	case sql.CastExpr:
		return e.evalCast(t, row)
	case sql.CallExpr:
		return e.evalCall(t, row)
	case sql.ArrayExpr:
		out := make(sql.Array, len(t.Elems))
		for i, elem := range t.Elems {
			v, err := e.eval(elem, row)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case sql.ObjectExpr:
		out := make(sql.Object, len(t.Keys))
		for i, key := range t.Keys {
			v, err := e.eval(t.Values[i], row)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (e *Engine) evalCast(cast sql.CastExpr, row sql.Value) (sql.Value, error) {
	inner, err := e.eval(cast.What, row)
	if err != nil {
		return nil, err
	}
	switch cast.Into {
	case "geometry":
		return sql.CastGeometry(inner)
	default:
		return nil, fmt.Errorf("unknown cast type: %s", cast.Into)
	}
}

func (e *Engine) evalCall(call sql.CallExpr, row sql.Value) (sql.Value, error) {
	args := make([]sql.Value, len(call.Args))
	for i, arg := range call.Args {
		v, err := e.eval(arg, row)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch call.Name {
	case "geo::valid", "geo::is::valid":
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument", call.Name)
		}
		g, err := sql.CoerceGeometry(args[0])
		if err != nil {
			return nil, err
		}
		return sql.Bool(sql.Valid(g)), nil
	case "type::point":
		if len(args) != 2 {
			return nil, fmt.Errorf("type::point expects 2 arguments")
		}
		lng, ok1 := numericFloat(args[0])
		lat, ok2 := numericFloat(args[1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("type::point expects numeric arguments")
		}
		return sql.Point{lng, lat}, nil
	case "time::now":
		return sql.Datetime(time.Now()), nil
	case "count":
		switch len(args) {
		case 0:
			return sql.Int(1), nil
		case 1:
			if arr, ok := args[0].(sql.Array); ok {
				return sql.Int(len(arr)), nil
			}
			return sql.Int(1), nil
		}
		return nil, fmt.Errorf("count expects at most 1 argument")
	}

	if kind, ok := strings.CutPrefix(call.Name, "type::is::"); ok {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument", call.Name)
		}
		return typeIs(kind, args[0])
	}

	return nil, fmt.Errorf("unknown function: %s", call.Name)
}

func numericFloat(v sql.Value) (float64, bool) {
	switch n := v.(type) {
	case sql.Int:
		return float64(n), true
	case sql.Float:
		return float64(n), true
	case sql.Decimal:
		f, _ := n.Decimal().Float64()
		return f, true
	default:
		return 0, false
	}
}

func typeIs(kind string, v sql.Value) (sql.Value, error) {
	switch kind {
	case "none":
		return sql.Bool(sql.IsNone(v)), nil
	case "null":
		return sql.Bool(sql.IsNull(v)), nil
	case "bool":
		return sql.Bool(sql.IsBool(v)), nil
	case "int":
		_, ok := v.(sql.Int)
		return sql.Bool(ok), nil
	case "float":
		_, ok := v.(sql.Float)
		return sql.Bool(ok), nil
	case "decimal":
		_, ok := v.(sql.Decimal)
		return sql.Bool(ok), nil
	case "number":
		return sql.Bool(sql.IsNumber(v)), nil
	case "string":
		return sql.Bool(sql.IsString(v)), nil
	case "duration":
		_, ok := v.(sql.Duration)
		return sql.Bool(ok), nil
	case "datetime":
		_, ok := v.(sql.Datetime)
		return sql.Bool(ok), nil
	case "record":
		return sql.Bool(sql.IsRecordID(v)), nil
	case "array":
		return sql.Bool(sql.IsArray(v)), nil
	case "object":
		return sql.Bool(sql.IsObject(v)), nil
	case "geometry":
		return sql.Bool(sql.IsGeometry(v)), nil
	default:
		return nil, fmt.Errorf("unknown function: type::is::%s", kind)
	}
}

// fieldOf resolves a dotted field path against a row. Geometries expose
// their serialized shape, so `centre.type` and `centre.coordinates` work.
// Unresolvable paths yield None.
func fieldOf(row sql.Value, path string) sql.Value {
	current := row
	for _, part := range strings.Split(path, ".") {
		if g, ok := current.(sql.Geometry); ok {
			shape, err := sql.FromNative(sql.Native(g))
			if err != nil {
				return sql.None{}
			}
			current = shape
		}
		obj, ok := current.(sql.Object)
		if !ok {
			return sql.None{}
		}
		field, ok := obj[part]
		if !ok {
			return sql.None{}
		}
		current = field
	}
	return current
}

// setField assigns a dotted field path on a record, creating intermediate
// objects as needed. Assigning None removes the field.
func setField(record sql.Object, path string, v sql.Value) {
	parts := strings.Split(path, ".")
	current := record
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(sql.Object)
		if !ok {
			next = sql.Object{}
			current[part] = next
		}
		current = next
	}

	leaf := parts[len(parts)-1]
	if sql.IsNone(v) {
		delete(current, leaf)
		return
	}
	current[leaf] = v
}

// matches evaluates a WHERE clause against a record. Conditions are
// AND-joined.
func (e *Engine) matches(where *sql.WhereClause, record sql.Value) (bool, error) {
	if where == nil {
		return true, nil
	}
	for _, cond := range where.Conditions {
		want, err := e.eval(cond.Value, record)
		if err != nil {
			return false, err
		}
		got := fieldOf(record, cond.Field)
		equal := sql.Equal(got, want)
		if cond.Operator == sql.NotEqualsOperator {
			equal = !equal
		}
		if !equal {
			return false, nil
		}
	}
	return true, nil
}
