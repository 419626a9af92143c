// Package db provides the query engine and result handling for LagoonDB.
//
// # Executing queries
//
// An Engine runs statements against a persistence layer and produces a
// Response with one slot per statement:
//
//	engine := db.NewEngine(&persistence, identity)
//	response, err := engine.Execute(`
//	    USE NS app DB main;
//	    CREATE person:tobie SET name = 'Tobie';
//	    SELECT * FROM person;
//	`)
//
// # Extracting results
//
// Results are pulled out of a Response by statement index, decoded into
// the caller's types. Typed extraction is destructive: each slot can be
// taken once.
//
//	type Person struct {
//	    Name string `json:"name"`
//	}
//
//	people, err := db.TakeAll[Person](response, 2)
//	name, err := db.TakeOneKey[string](response, 1, "name")
//
// A statement's failure is also delivered through extraction, exactly
// once; afterwards the slot reports ErrSlotConsumed. Extracting a single
// value from a multi-row result fails with AmbiguousResultError, which
// carries the rest of the response instead of discarding it.
package db
