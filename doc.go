// Package LagoonDB provides a Git-backed document and geometry database.
//
// LagoonDB stores records as tagged values: objects, arrays, scalars,
// exact decimals, record ids and first-class geometries. Every write
// batch becomes a Git commit, so the full history of the datastore is
// recoverable.
//
// # Quick Start
//
// Create an in-memory database:
//
//	persistence, _ := ps.NewMemoryPersistence()
//	lagoon := LagoonDB.Open(&persistence)
//	engine := lagoon.Engine(core.Identity{Name: "App", Email: "app@example.com"})
//
//	response, _ := engine.Execute(`
//	    USE NS app DB main;
//	    CREATE city:london SET name = 'London', centre = (-0.118092, 51.509865);
//	    SELECT * FROM city;
//	`)
//
//	type City struct {
//	    Name string `json:"name"`
//	}
//	cities, _ := db.TakeAll[City](response, 2)
//
// # Supported statements
//
// LagoonDB supports a compact query language including:
//   - USE NS / DB
//   - LET session parameters
//   - CREATE, UPDATE (CONTENT, MERGE, SET), DELETE, INSERT, RELATE
//   - SELECT with field projection and WHERE
//   - DEFINE/REMOVE NAMESPACE, DATABASE, TABLE
//   - INFO FOR ROOT/NS/DB
//   - LIVE SELECT and KILL
//   - Transactions: BEGIN, COMMIT, CANCEL
//
// Results come back as an indexed response; typed values are pulled out
// with the extraction helpers in the db package.
package LagoonDB
