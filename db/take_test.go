package db

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/harborne/LagoonDB/sql"
)

func okResponse(values ...sql.Value) *Response {
	response := NewResponse()
	for _, value := range values {
		response.Push(Stats{ExecutionTime: time.Millisecond}, value, nil)
	}
	return response
}

func TestTakeMissingIndex(t *testing.T) {
	response := okResponse(sql.String("only"))

	v, err := response.Take(5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !sql.IsNone(v) {
		t.Errorf("Expected None for missing index, got %s", sql.FormatValue(v))
	}
}

func TestTakeDoesNotConsumeSuccess(t *testing.T) {
	response := okResponse(sql.Array{sql.Object{"name": sql.String("Ada")}})

	first, err := response.Take(0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := response.Take(0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !sql.Equal(first, second) {
		t.Error("Expected repeated raw takes to see the same value")
	}
}

func TestFailureObservedExactlyOnce(t *testing.T) {
	boom := fmt.Errorf("boom")
	response := NewResponse()
	response.Push(Stats{}, nil, boom)

	if _, err := response.Take(0); !errors.Is(err, boom) {
		t.Fatalf("Expected original failure, got %v", err)
	}
	if _, err := response.Take(0); !errors.Is(err, ErrSlotConsumed) {
		t.Fatalf("Expected placeholder on second take, got %v", err)
	}

	// Typed extraction sees the placeholder too.
	if _, err := TakeOne[string](response, 0); !errors.Is(err, ErrSlotConsumed) {
		t.Fatalf("Expected placeholder via typed take, got %v", err)
	}
}

func TestTakeOne(t *testing.T) {
	t.Run("missing index", func(t *testing.T) {
		response := okResponse()
		got, err := TakeOne[string](response, 3)
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		response := okResponse(sql.Array{})
		got, err := TakeOne[string](response, 0)
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
		if len(response.Indexes()) != 0 {
			t.Error("Expected slot to be consumed")
		}
	})

	t.Run("single element array", func(t *testing.T) {
		response := okResponse(sql.Array{sql.String("Ada")})
		got, err := TakeOne[string](response, 0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got == nil || *got != "Ada" {
			t.Errorf("Expected Ada, got %v", got)
		}
		if len(response.Indexes()) != 0 {
			t.Error("Expected slot to be consumed")
		}
	})

	t.Run("bare scalar", func(t *testing.T) {
		response := okResponse(sql.Int(42))
		got, err := TakeOne[int64](response, 0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got == nil || *got != 42 {
			t.Errorf("Expected 42, got %v", got)
		}
	})

	t.Run("null result", func(t *testing.T) {
		response := okResponse(sql.Null{})
		got, err := TakeOne[string](response, 0)
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
		if len(response.Indexes()) != 0 {
			t.Error("Expected slot to be consumed")
		}
	})

	t.Run("decode failure names the index", func(t *testing.T) {
		response := okResponse(sql.Array{sql.String("not a number")})
		_, err := TakeOne[int](response, 0)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("Expected DecodeError, got %v", err)
		}
		if decodeErr.Index != 0 || decodeErr.Key != "" {
			t.Errorf("Unexpected error detail: %+v", decodeErr)
		}
	})
}

func TestTakeOneAmbiguous(t *testing.T) {
	response := okResponse(
		sql.Array{sql.String("first"), sql.String("second")},
		sql.Array{sql.String("other")},
	)

	_, err := TakeOne[string](response, 0)
	var ambiguous *AmbiguousResultError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Expected AmbiguousResultError, got %v", err)
	}
	if ambiguous.Index != 0 {
		t.Errorf("Expected index 0, got %d", ambiguous.Index)
	}

	// The whole remaining response moved into the error; the original is
	// empty and a different index is still extractable from the remainder.
	if len(response.Indexes()) != 0 {
		t.Errorf("Expected original response drained, got indexes %v", response.Indexes())
	}
	other, err := TakeOne[string](ambiguous.Remainder, 1)
	if err != nil {
		t.Fatalf("Unexpected error from remainder: %v", err)
	}
	if other == nil || *other != "other" {
		t.Errorf("Expected other, got %v", other)
	}
}

func TestTakeOneKey(t *testing.T) {
	t.Run("field extraction removes only the field", func(t *testing.T) {
		response := okResponse(sql.Array{sql.Object{
			"name": sql.String("Ada"),
			"born": sql.Int(1815),
		}})

		name, err := TakeOneKey[string](response, 0, "name")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if name == nil || *name != "Ada" {
			t.Errorf("Expected Ada, got %v", name)
		}

		// The rest of the object stays in the slot.
		rest, err := response.Take(0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := sql.Array{sql.Object{"born": sql.Int(1815)}}
		if !sql.Equal(rest, want) {
			t.Errorf("Expected %s, got %s", sql.FormatValue(want), sql.FormatValue(rest))
		}
	})

	t.Run("missing field does not consume", func(t *testing.T) {
		response := okResponse(sql.Object{"name": sql.String("Ada")})

		missing, err := TakeOneKey[string](response, 0, "age")
		if err != nil || missing != nil {
			t.Errorf("Expected nil, nil; got %v, %v", missing, err)
		}

		// The object is untouched and the field still extractable.
		name, err := TakeOneKey[string](response, 0, "name")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if name == nil || *name != "Ada" {
			t.Errorf("Expected Ada, got %v", name)
		}
	})

	t.Run("null consumes", func(t *testing.T) {
		response := okResponse(sql.Null{})
		got, err := TakeOneKey[string](response, 0, "name")
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
		if len(response.Indexes()) != 0 {
			t.Error("Expected slot to be consumed")
		}
	})

	t.Run("empty object consumes", func(t *testing.T) {
		response := okResponse(sql.Object{})
		got, err := TakeOneKey[string](response, 0, "name")
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
		if len(response.Indexes()) != 0 {
			t.Error("Expected slot to be consumed")
		}
	})

	t.Run("non-object yields nothing without consuming", func(t *testing.T) {
		response := okResponse(sql.String("scalar"))
		got, err := TakeOneKey[string](response, 0, "name")
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
		if len(response.Indexes()) != 1 {
			t.Error("Expected slot to survive")
		}
	})

	t.Run("decode failure names index and key", func(t *testing.T) {
		response := okResponse(sql.Object{"age": sql.String("old")})
		_, err := TakeOneKey[int](response, 0, "age")
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("Expected DecodeError, got %v", err)
		}
		if decodeErr.Index != 0 || decodeErr.Key != "age" {
			t.Errorf("Unexpected error detail: %+v", decodeErr)
		}
	})
}

func TestTakeKeyRaw(t *testing.T) {
	response := okResponse(sql.Array{sql.Object{
		"name": sql.String("Ada"),
		"born": sql.Int(1815),
	}})

	v, err := response.TakeKey(0, "born")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !sql.Equal(v, sql.Int(1815)) {
		t.Errorf("Expected 1815, got %s", sql.FormatValue(v))
	}

	// Wrong shapes and missing fields yield None, never an error.
	if v, err := response.TakeKey(0, "born"); err != nil || !sql.IsNone(v) {
		t.Errorf("Expected None for already removed field, got %s, %v", sql.FormatValue(v), err)
	}

	scalar := okResponse(sql.Int(7))
	if v, err := scalar.TakeKey(0, "anything"); err != nil || !sql.IsNone(v) {
		t.Errorf("Expected None for non-object, got %s, %v", sql.FormatValue(v), err)
	}
	if len(scalar.Indexes()) != 1 {
		t.Error("Expected slot to survive raw keyed take")
	}
}

func TestTakeAll(t *testing.T) {
	t.Run("missing index yields empty", func(t *testing.T) {
		response := okResponse()
		got, err := TakeAll[string](response, 9)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected empty slice, got %v", got)
		}
	})

	t.Run("element-wise decode", func(t *testing.T) {
		type person struct {
			Name string `json:"name"`
		}
		response := okResponse(sql.Array{
			sql.Object{"name": sql.String("Ada")},
			sql.Object{"name": sql.String("Grace")},
		})
		got, err := TakeAll[person](response, 0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := []person{{Name: "Ada"}, {Name: "Grace"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
		if len(response.Indexes()) != 0 {
			t.Error("Expected slot to be consumed")
		}
	})

	t.Run("no partial results", func(t *testing.T) {
		response := okResponse(sql.Array{sql.Int(1), sql.String("two"), sql.Int(3)})
		got, err := TakeAll[int64](response, 0)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("Expected DecodeError, got %v", err)
		}
		if got != nil {
			t.Errorf("Expected no partial results, got %v", got)
		}
	})

	t.Run("scalar is a one-element collection", func(t *testing.T) {
		response := okResponse(sql.String("lonely"))
		got, err := TakeAll[string](response, 0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"lonely"}) {
			t.Errorf("Expected one element, got %v", got)
		}
	})

	t.Run("none and null are absent, not scalars", func(t *testing.T) {
		for _, absent := range []sql.Value{sql.None{}, sql.Null{}} {
			response := okResponse(absent)
			got, err := TakeAll[string](response, 0)
			if err != nil {
				t.Fatalf("Unexpected error for %s: %v", sql.FormatValue(absent), err)
			}
			if len(got) != 0 {
				t.Errorf("Expected empty slice for %s, got %v", sql.FormatValue(absent), got)
			}
			if len(response.Indexes()) != 0 {
				t.Error("Expected slot to be consumed")
			}
		}
	})
}

func TestTakeAllKey(t *testing.T) {
	response := okResponse(sql.Array{
		sql.Object{"name": sql.String("Ada"), "born": sql.Int(1815)},
		sql.Object{"born": sql.Int(1906)},
		sql.String("not an object"),
		sql.Object{"name": sql.String("Grace")},
	})

	names, err := TakeAllKey[string](response, 0, "name")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Ada", "Grace"}) {
		t.Errorf("Expected names of matching elements only, got %v", names)
	}
	if len(response.Indexes()) != 0 {
		t.Error("Expected slot to be consumed")
	}

	scalar := okResponse(sql.Int(1))
	got, err := TakeAllKey[string](scalar, 0, "name")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty slice for non-array, got %v", got)
	}
}

func TestKeyOnlySelectorsDefaultToFirstStatement(t *testing.T) {
	response := okResponse(
		sql.Array{sql.Object{"name": sql.String("Ada")}},
		sql.Array{sql.Object{"name": sql.String("Grace")}},
	)

	name, err := TakeOneField[string](response, "name")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if name == nil || *name != "Ada" {
		t.Errorf("Expected first statement's field, got %v", name)
	}
}

func TestStatsSurviveConsumption(t *testing.T) {
	response := NewResponse()
	response.Push(Stats{ExecutionTime: 3 * time.Millisecond}, sql.Array{sql.Int(1)}, nil)

	if _, err := TakeAll[int64](response, 0); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	stats, ok := response.Stats(0)
	if !ok {
		t.Fatal("Expected stats to survive value consumption")
	}
	if stats.ExecutionTime != 3*time.Millisecond {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	if _, ok := response.Stats(7); ok {
		t.Error("Expected no stats for unknown index")
	}
}
