// Package ps provides the persistence layer for LagoonDB.
//
// The persistence layer is backed by Git, using go-git for storage.
// Every committed batch of changes creates a Git commit, so the full
// history of the datastore is recoverable.
//
// Content is addressed by slash-separated paths; the engine lays records
// out as namespace/database/table/record.
//
// # Memory Persistence
//
// For testing or ephemeral databases:
//
//	persistence, err := ps.NewMemoryPersistence()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # File Persistence
//
// For persistent storage:
//
//	persistence, err := ps.NewFilePersistence("/path/to/data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Batching
//
// Multiple changes can be staged and committed atomically:
//
//	batch := persistence.NewBatch()
//	batch.Put("app/main/person/one", data1)
//	batch.Put("app/main/person/two", data2)
//	txn, _ := batch.Commit(identity, "Saving records")
package ps
