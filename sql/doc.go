// Package sql provides the value model and query language for LagoonDB.
//
// The package defines the dynamically-tagged Value union exchanged between
// the query engine and callers, the lexer and parser for the Lagoon query
// language, and the merge semantics used by partial updates.
//
// # Values
//
// Value is a closed sum: None, Null, Bool, Int/Float/Decimal, String,
// Duration, Datetime, RecordID, Array, Object and Geometry. The tag is
// authoritative: an Object shaped like a geometry is still an Object until
// it is cast.
//
//	obj := sql.Object{
//	    "type":        sql.String("Point"),
//	    "coordinates": sql.Array{sql.Float(-0.118092), sql.Float(51.509865)},
//	}
//	sql.IsGeometry(obj) // false
//	g, err := sql.CastGeometry(obj)
//	sql.IsGeometry(g) // true
//
// # Parsing
//
//	statements, err := sql.Parse("CREATE city:london SET centre = (-0.118092, 51.509865)")
//
// # Merging
//
// Merge applies a field-level patch to a record object. A None value in
// the patch deletes the field, nested objects merge recursively and
// everything else is replaced wholesale:
//
//	merged := sql.Merge(record, patch)
package sql
