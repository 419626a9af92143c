package sql

import (
	"fmt"
)

// IntoStatements normalizes heterogeneous query inputs into one canonical
// ordered statement sequence. It accepts a single Statement, a
// []Statement, or raw query text. Raw text goes through the parser and a
// parse failure propagates unchanged. Order is preserved exactly as
// submitted; nothing is reordered, deduplicated or filtered.
func IntoStatements(input any) ([]Statement, error) {
	switch q := input.(type) {
	case nil:
		return nil, fmt.Errorf("cannot build a query from nil")
	case []Statement:
		return q, nil
	case Statement:
		return []Statement{q}, nil
	case string:
		return Parse(q)
	case fmt.Stringer:
		return Parse(q.String())
	default:
		return nil, fmt.Errorf("cannot build a query from %T", input)
	}
}
