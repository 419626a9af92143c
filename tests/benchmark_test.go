package tests

import (
	"strconv"
	"testing"

	"github.com/harborne/LagoonDB"
	"github.com/harborne/LagoonDB/core"
	"github.com/harborne/LagoonDB/db"
	"github.com/harborne/LagoonDB/ps"
	"github.com/harborne/LagoonDB/sql"
)

// setupBenchmarkDB creates a database with test data for benchmarks
func setupBenchmarkDB(b *testing.B) *db.Engine {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		b.Fatalf("Failed to initialize persistence: %v", err)
	}
	instance := LagoonDB.Open(&persistence)
	engine := instance.Engine(core.Identity{Name: "benchmark", Email: "bench@test.com"})

	engine.Execute("USE NS bench DB main")

	// Insert 1000 records
	for i := 1; i <= 1000; i++ {
		engine.Execute("CREATE users:u" + strconv.Itoa(i) +
			" SET name = 'User" + strconv.Itoa(i) +
			"', age = " + strconv.Itoa(20+i%50) +
			", city = 'City" + strconv.Itoa(i%10) + "'")
	}

	return engine
}

// BenchmarkParsing benchmarks statement parsing performance
func BenchmarkParsing(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"SimpleSelect", "SELECT * FROM users"},
		{"SelectWithWhere", "SELECT * FROM users WHERE city = 'City5'"},
		{"SelectFields", "SELECT name, address.city FROM users"},
		{"CreateContent", "CREATE users CONTENT { name: 'Test', age: 25, home: (4.9, 52.4) }"},
		{"UpdateMerge", "UPDATE users:u1 MERGE { age: 30, tags: ['a', 'b'] }"},
		{"GeometryCast", "LET $g = <geometry>{ type: 'Point', coordinates: [1.0, 2.0] }"},
		{"Delete", "DELETE users WHERE city = 'City1'"},
	}

	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := sql.Parse(q.query); err != nil {
					b.Fatalf("Parse error: %v", err)
				}
			}
		})
	}
}

// BenchmarkSelectAll benchmarks SELECT * FROM table
func BenchmarkSelectAll(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectWithWhere benchmarks SELECT with WHERE clause
func BenchmarkSelectWithWhere(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users WHERE city = 'City5'")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectRecord benchmarks direct record fetches
func BenchmarkSelectRecord(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users:u500")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkCount benchmarks count() over a full table scan
func BenchmarkCount(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT count() FROM users")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkCreate benchmarks record creation (one commit per record)
func BenchmarkCreate(b *testing.B) {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		b.Fatalf("Failed to initialize persistence: %v", err)
	}
	instance := LagoonDB.Open(&persistence)
	engine := instance.Engine(core.Identity{Name: "benchmark", Email: "bench@test.com"})
	engine.Execute("USE NS bench DB main")

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("CREATE items:i" + strconv.Itoa(i) + " SET value = 'value" + strconv.Itoa(i) + "'")
		if err != nil {
			b.Fatalf("Create error: %v", err)
		}
	}
}

// BenchmarkCreateBatched benchmarks record creation inside a transaction,
// where all writes land in a single commit.
func BenchmarkCreateBatched(b *testing.B) {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		b.Fatalf("Failed to initialize persistence: %v", err)
	}
	instance := LagoonDB.Open(&persistence)
	engine := instance.Engine(core.Identity{Name: "benchmark", Email: "bench@test.com"})
	engine.Execute("USE NS bench DB main")

	b.ResetTimer()

	engine.Execute("BEGIN")
	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("CREATE items:i" + strconv.Itoa(i) + " SET value = 'value" + strconv.Itoa(i) + "'")
		if err != nil {
			b.Fatalf("Create error: %v", err)
		}
	}
	engine.Execute("COMMIT")
}

// BenchmarkUpdateMerge benchmarks deep-merge updates on a single record
func BenchmarkUpdateMerge(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("UPDATE users:u1 MERGE { age: " + strconv.Itoa(i%100) + " }")
		if err != nil {
			b.Fatalf("Update error: %v", err)
		}
	}
}

// BenchmarkGeometryRoundTrip benchmarks geometry create-and-read
func BenchmarkGeometryRoundTrip(b *testing.B) {
	engine := setupBenchmarkDB(b)

	_, err := engine.Execute("CREATE places:hq SET location = (4.8952, 52.3702)")
	if err != nil {
		b.Fatalf("Create error: %v", err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM places:hq")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}
