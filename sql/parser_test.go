package sql

import (
	"testing"
	"time"
)

func parseOne(t *testing.T, input string) Statement {
	t.Helper()
	statements, err := Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	if len(statements) != 1 {
		t.Fatalf("Expected one statement, got %d", len(statements))
	}
	return statements[0]
}

func TestParseUse(t *testing.T) {
	stmt := parseOne(t, "USE NS app DB main").(UseStatement)
	if stmt.Namespace != "app" || stmt.Database != "main" {
		t.Errorf("Unexpected USE: %+v", stmt)
	}

	stmt = parseOne(t, "USE DB only").(UseStatement)
	if stmt.Namespace != "" || stmt.Database != "only" {
		t.Errorf("Unexpected USE: %+v", stmt)
	}

	if _, err := Parse("USE"); err == nil {
		t.Error("Expected bare USE to fail")
	}
}

func TestParseLet(t *testing.T) {
	stmt := parseOne(t, "LET $name = 'Ada'").(SetStatement)
	if stmt.Name != "name" {
		t.Errorf("Unexpected parameter name: %q", stmt.Name)
	}
	lit := stmt.What.(LiteralExpr)
	if lit.Value != String("Ada") {
		t.Errorf("Unexpected value: %v", lit.Value)
	}
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, v Value)
	}{
		{"Int", "LET $x = -42", func(t *testing.T, v Value) {
			if v != Int(-42) {
				t.Errorf("Expected -42, got %v", v)
			}
		}},
		{"Float", "LET $x = 3.14", func(t *testing.T, v Value) {
			if v != Float(3.14) {
				t.Errorf("Expected 3.14, got %v", v)
			}
		}},
		{"Decimal", "LET $x = 13.37dec", func(t *testing.T, v Value) {
			d, ok := v.(Decimal)
			if !ok || d.String() != "13.37" {
				t.Errorf("Expected decimal 13.37, got %v", v)
			}
		}},
		{"Duration", "LET $x = 1h30m", func(t *testing.T, v Value) {
			if v != Duration(90*time.Minute) {
				t.Errorf("Expected 1h30m, got %v", v)
			}
		}},
		{"Datetime", "LET $x = d'2024-01-02T03:04:05Z'", func(t *testing.T, v Value) {
			ts, ok := v.(Datetime)
			want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			if !ok || !time.Time(ts).Equal(want) {
				t.Errorf("Expected %v, got %v", want, v)
			}
		}},
		{"Bool", "LET $x = true", func(t *testing.T, v Value) {
			if v != Bool(true) {
				t.Errorf("Expected true, got %v", v)
			}
		}},
		{"Null", "LET $x = NULL", func(t *testing.T, v Value) {
			if !IsNull(v) {
				t.Errorf("Expected null, got %v", v)
			}
		}},
		{"None", "LET $x = NONE", func(t *testing.T, v Value) {
			if !IsNone(v) {
				t.Errorf("Expected none, got %v", v)
			}
		}},
		{"Point", "LET $x = (4.9, 52.4)", func(t *testing.T, v Value) {
			if !Equal(v, Point{4.9, 52.4}) {
				t.Errorf("Expected point, got %v", v)
			}
		}},
		{"RecordID", "LET $x = person:ada", func(t *testing.T, v Value) {
			if !Equal(v, RecordID{Table: "person", ID: "ada"}) {
				t.Errorf("Expected person:ada, got %v", v)
			}
		}},
		{"Array", "LET $x = [1, 'two', true]", func(t *testing.T, v Value) {
			arr, ok := v.(Array)
			if !ok || len(arr) != 3 {
				t.Fatalf("Expected three-element array, got %v", v)
			}
			if arr[1] != String("two") {
				t.Errorf("Unexpected element: %v", arr[1])
			}
		}},
		{"Object", "LET $x = { name: 'Ada', age: 36 }", func(t *testing.T, v Value) {
			obj, ok := v.(Object)
			if !ok || obj["name"] != String("Ada") || !Equal(obj["age"], Int(36)) {
				t.Errorf("Unexpected object: %v", v)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseOne(t, tt.input).(SetStatement)
			lit, ok := stmt.What.(LiteralExpr)
			if !ok {
				t.Fatalf("Expected literal, got %T", stmt.What)
			}
			tt.check(t, lit.Value)
		})
	}
}

func TestParseSelect(t *testing.T) {
	t.Run("Star", func(t *testing.T) {
		stmt := parseOne(t, "SELECT * FROM person").(SelectStatement)
		if !stmt.AllFields {
			t.Error("Expected all fields")
		}
		target := stmt.Targets[0].(IdentExpr)
		if target.Name != "person" {
			t.Errorf("Unexpected target: %v", target)
		}
	})

	t.Run("FieldList", func(t *testing.T) {
		stmt := parseOne(t, "SELECT name, address.city AS town FROM person").(SelectStatement)
		if stmt.AllFields || len(stmt.Fields) != 2 {
			t.Fatalf("Unexpected fields: %+v", stmt)
		}
		if stmt.Fields[1].Expr.(IdentExpr).Name != "address.city" {
			t.Errorf("Expected dotted path, got %v", stmt.Fields[1].Expr)
		}
		if stmt.Fields[1].Alias != "town" {
			t.Errorf("Expected alias town, got %q", stmt.Fields[1].Alias)
		}
	})

	t.Run("RecordTarget", func(t *testing.T) {
		stmt := parseOne(t, "SELECT * FROM person:ada").(SelectStatement)
		lit := stmt.Targets[0].(LiteralExpr)
		if !Equal(lit.Value, RecordID{Table: "person", ID: "ada"}) {
			t.Errorf("Unexpected target: %v", lit.Value)
		}
	})

	t.Run("Where", func(t *testing.T) {
		stmt := parseOne(t, "SELECT * FROM person WHERE city = 'London' AND address.zip != 'X'").(SelectStatement)
		if len(stmt.Where.Conditions) != 2 {
			t.Fatalf("Expected two conditions, got %+v", stmt.Where)
		}
		if stmt.Where.Conditions[0].Operator != EqualsOperator {
			t.Error("Expected equals operator")
		}
		second := stmt.Where.Conditions[1]
		if second.Field != "address.zip" || second.Operator != NotEqualsOperator {
			t.Errorf("Unexpected condition: %+v", second)
		}
	})

	t.Run("FunctionField", func(t *testing.T) {
		stmt := parseOne(t, "SELECT count() FROM person").(SelectStatement)
		call := stmt.Fields[0].Expr.(CallExpr)
		if call.Name != "count" || len(call.Args) != 0 {
			t.Errorf("Unexpected call: %+v", call)
		}
	})

	t.Run("GroupAll", func(t *testing.T) {
		stmt := parseOne(t, "SELECT count() FROM person GROUP ALL").(SelectStatement)
		if !stmt.GroupAll {
			t.Error("Expected GROUP ALL")
		}

		stmt = parseOne(t, "SELECT count() FROM person WHERE city = 'London' GROUP ALL").(SelectStatement)
		if !stmt.GroupAll || stmt.Where == nil {
			t.Errorf("Expected WHERE and GROUP ALL together, got %+v", stmt)
		}

		if _, err := Parse("SELECT * FROM person GROUP ALL"); err == nil {
			t.Error("Expected GROUP ALL with * to fail")
		}
	})
}

func TestParseCreate(t *testing.T) {
	t.Run("Set", func(t *testing.T) {
		stmt := parseOne(t, "CREATE person:ada SET name = 'Ada', address.city = 'London'").(CreateStatement)
		if len(stmt.Set) != 2 {
			t.Fatalf("Expected two set fields, got %+v", stmt.Set)
		}
		if stmt.Set[1].Field != "address.city" {
			t.Errorf("Expected dotted set path, got %q", stmt.Set[1].Field)
		}
	})

	t.Run("Content", func(t *testing.T) {
		stmt := parseOne(t, "CREATE person CONTENT { name: 'Ada' }").(CreateStatement)
		lit := stmt.Content.(LiteralExpr)
		if lit.Value.(Object)["name"] != String("Ada") {
			t.Errorf("Unexpected content: %v", lit.Value)
		}
	})

	t.Run("ContentWithParam", func(t *testing.T) {
		stmt := parseOne(t, "CREATE person CONTENT { name: $who }").(CreateStatement)
		obj, ok := stmt.Content.(ObjectExpr)
		if !ok {
			t.Fatalf("Expected unfolded object expression, got %T", stmt.Content)
		}
		if _, ok := obj.Values[0].(ParamExpr); !ok {
			t.Errorf("Expected param reference, got %T", obj.Values[0])
		}
	})

	t.Run("BulkCount", func(t *testing.T) {
		stmt := parseOne(t, "CREATE |person:1000|").(CreateStatement)
		if stmt.Bulk == nil {
			t.Fatal("Expected bulk target")
		}
		if stmt.Bulk.Table != "person" || stmt.Bulk.Count != 1000 || stmt.Bulk.Range {
			t.Errorf("Unexpected bulk target: %+v", stmt.Bulk)
		}
	})

	t.Run("BulkRange", func(t *testing.T) {
		stmt := parseOne(t, "CREATE |person:101..1100| SET kind = 'bulk'").(CreateStatement)
		bulk := stmt.Bulk
		if bulk == nil || !bulk.Range {
			t.Fatalf("Expected ranged bulk target, got %+v", bulk)
		}
		if bulk.Start != 101 || bulk.End != 1100 || bulk.Count != 1000 {
			t.Errorf("Unexpected range: %+v", bulk)
		}
		if len(stmt.Set) != 1 {
			t.Errorf("Expected SET clause on bulk create, got %+v", stmt.Set)
		}
	})

	t.Run("BulkErrors", func(t *testing.T) {
		for _, query := range []string{
			"CREATE |person:0|",
			"CREATE |person:10..5|",
			"CREATE |person:10",
		} {
			if _, err := Parse(query); err == nil {
				t.Errorf("Expected %q to fail", query)
			}
		}
	})
}

func TestParseUpdate(t *testing.T) {
	stmt := parseOne(t, "UPDATE person:ada MERGE { age: 37 } WHERE city = 'London'").(UpdateStatement)
	if stmt.Merge == nil {
		t.Fatal("Expected merge patch")
	}
	if stmt.Where == nil {
		t.Fatal("Expected where clause")
	}
}

func TestParseRelate(t *testing.T) {
	stmt := parseOne(t, "RELATE person:ada -> wrote -> article:one CONTENT { at: d'2024-01-01T00:00:00Z' }").(RelateStatement)
	if stmt.Edge != "wrote" {
		t.Errorf("Unexpected edge: %q", stmt.Edge)
	}
	from := stmt.From.(LiteralExpr)
	if !Equal(from.Value, RecordID{Table: "person", ID: "ada"}) {
		t.Errorf("Unexpected from: %v", from.Value)
	}
	if stmt.Content == nil {
		t.Error("Expected content")
	}
}

func TestParseInsert(t *testing.T) {
	t.Run("Single", func(t *testing.T) {
		stmt := parseOne(t, "INSERT INTO person { name: 'Ada' }").(InsertStatement)
		if stmt.Table != "person" || len(stmt.Values) != 1 {
			t.Errorf("Unexpected insert: %+v", stmt)
		}
	})

	t.Run("Multiple", func(t *testing.T) {
		stmt := parseOne(t, "INSERT INTO person [{ name: 'Ada' }, { name: 'Grace' }]").(InsertStatement)
		if len(stmt.Values) != 2 {
			t.Errorf("Expected two rows, got %d", len(stmt.Values))
		}
	})
}

func TestParseCast(t *testing.T) {
	stmt := parseOne(t, "LET $g = <geometry>{ type: 'Point', coordinates: [1.0, 2.0] }").(SetStatement)
	cast, ok := stmt.What.(CastExpr)
	if !ok {
		t.Fatalf("Expected cast, got %T", stmt.What)
	}
	if cast.Into != "geometry" {
		t.Errorf("Unexpected cast target: %q", cast.Into)
	}
}

func TestParseFunctionCall(t *testing.T) {
	stmt := parseOne(t, "RETURN geo::valid($g)").(ReturnStatement)
	call, ok := stmt.What.(CallExpr)
	if !ok {
		t.Fatalf("Expected call, got %T", stmt.What)
	}
	if call.Name != "geo::valid" {
		t.Errorf("Unexpected function name: %q", call.Name)
	}
	if _, ok := call.Args[0].(ParamExpr); !ok {
		t.Errorf("Expected param argument, got %T", call.Args[0])
	}
}

func TestParseSchema(t *testing.T) {
	define := parseOne(t, "DEFINE TABLE person").(DefineStatement)
	if define.Kind != "TABLE" || define.Name != "person" {
		t.Errorf("Unexpected define: %+v", define)
	}

	remove := parseOne(t, "REMOVE NAMESPACE app").(RemoveStatement)
	if remove.Kind != "NAMESPACE" || remove.Name != "app" {
		t.Errorf("Unexpected remove: %+v", remove)
	}

	info := parseOne(t, "INFO FOR ROOT").(InfoStatement)
	if info.Level != "ROOT" {
		t.Errorf("Unexpected info: %+v", info)
	}
}

func TestParseTransactions(t *testing.T) {
	statements, err := Parse("BEGIN TRANSACTION; CREATE person:ada; COMMIT TRANSACTION")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(statements) != 3 {
		t.Fatalf("Expected three statements, got %d", len(statements))
	}
	if statements[0].Type() != BeginStatementType {
		t.Error("Expected BEGIN first")
	}
	if statements[2].Type() != CommitStatementType {
		t.Error("Expected COMMIT last")
	}

	cancel := parseOne(t, "CANCEL")
	if cancel.Type() != CancelStatementType {
		t.Error("Expected CANCEL")
	}
}

func TestParseLiveAndKill(t *testing.T) {
	live := parseOne(t, "LIVE SELECT * FROM person").(LiveStatement)
	if live.Table != "person" {
		t.Errorf("Unexpected live table: %q", live.Table)
	}

	kill := parseOne(t, "KILL 'some-id'").(KillStatement)
	lit := kill.ID.(LiteralExpr)
	if lit.Value != String("some-id") {
		t.Errorf("Unexpected kill id: %v", lit.Value)
	}
}

func TestParseStatementOrder(t *testing.T) {
	statements, err := Parse("USE NS a DB b; CREATE person:ada; SELECT * FROM person")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	want := []StatementType{UseStatementType, CreateStatementType, SelectStatementType}
	for i, statement := range statements {
		if statement.Type() != want[i] {
			t.Errorf("Statement %d: expected %v, got %v", i, want[i], statement.Type())
		}
	}
}

func TestParseComments(t *testing.T) {
	stmt := parseOne(t, "-- leading comment\nSELECT * FROM person -- trailing")
	if stmt.Type() != SelectStatementType {
		t.Errorf("Expected select, got %v", stmt.Type())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"UnknownStatement", "SELEC * FROM person"},
		{"MissingFrom", "SELECT *"},
		{"MissingSemicolon", "SELECT * FROM a SELECT * FROM b"},
		{"BadWhere", "SELECT * FROM person WHERE"},
		{"BadCast", "LET $x = <geometry"},
		{"BadPoint", "LET $x = ('a', 'b')"},
		{"DanglingRecordColon", "SELECT * FROM person:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Expected %q to fail", tt.input)
			}
			if _, ok := err.(*ParseError); !ok {
				t.Errorf("Expected ParseError, got %T", err)
			}
		})
	}
}

func TestIntoStatements(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		statements, err := IntoStatements("SELECT * FROM person")
		if err != nil || len(statements) != 1 {
			t.Fatalf("Unexpected result: %v, %v", statements, err)
		}
	})

	t.Run("Statement", func(t *testing.T) {
		statements, err := IntoStatements(BeginStatement{})
		if err != nil || len(statements) != 1 {
			t.Fatalf("Unexpected result: %v, %v", statements, err)
		}
	})

	t.Run("Slice", func(t *testing.T) {
		in := []Statement{BeginStatement{}, CommitStatement{}}
		statements, err := IntoStatements(in)
		if err != nil || len(statements) != 2 {
			t.Fatalf("Unexpected result: %v, %v", statements, err)
		}
	})

	t.Run("Nil", func(t *testing.T) {
		if _, err := IntoStatements(nil); err == nil {
			t.Error("Expected nil input to fail")
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		if _, err := IntoStatements(42); err == nil {
			t.Error("Expected unsupported input to fail")
		}
	})
}
