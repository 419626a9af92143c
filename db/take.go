package db

import (
	"github.com/harborne/LagoonDB/sql"
)

// consume swaps a stored failure for the ErrSlotConsumed placeholder and
// returns the original error. Failures are observed exactly once.
func consume(s *slot) error {
	err := s.err
	s.err = ErrSlotConsumed
	return err
}

// Take returns the raw value of the statement at index. A missing index
// yields None. A failed statement propagates its error, consuming it. A
// successful value is returned as-is without removing the slot, so other
// selectors can still act on the same index.
func (r *Response) Take(index int) (sql.Value, error) {
	s, ok := r.slots[index]
	if !ok {
		return sql.None{}, nil
	}
	if s.err != nil {
		return sql.None{}, consume(s)
	}
	return s.value, nil
}

// TakeKey returns the raw value of field key within the result of the
// statement at index, removing the field from the stored object. It never
// fails on shape: any non-object result or missing field yields None. The
// slot itself is not removed.
func (r *Response) TakeKey(index int, key string) (sql.Value, error) {
	s, ok := r.slots[index]
	if !ok {
		return sql.None{}, nil
	}
	if s.err != nil {
		return sql.None{}, consume(s)
	}

	single := s.value
	if arr, ok := single.(sql.Array); ok {
		if len(arr) != 1 {
			return sql.None{}, nil
		}
		single = arr[0]
	}

	obj, ok := single.(sql.Object)
	if !ok {
		return sql.None{}, nil
	}
	field, ok := obj[key]
	if !ok {
		return sql.None{}, nil
	}
	delete(obj, key)
	return field, nil
}

// TakeField is TakeKey against the first statement.
func (r *Response) TakeField(key string) (sql.Value, error) {
	return r.TakeKey(0, key)
}

// TakeOne extracts the result of the statement at index as a single T.
// A missing index, an empty result or an explicit None/Null yields nil. A
// result with more than one element fails with AmbiguousResultError
// carrying the entire remaining response; the first element is never
// silently picked. On success or ambiguous failure the slot is consumed.
func TakeOne[T any](r *Response, index int) (*T, error) {
	s, ok := r.slots[index]
	if !ok {
		return nil, nil
	}
	if s.err != nil {
		return nil, consume(s)
	}

	single := s.value
	if arr, ok := single.(sql.Array); ok {
		switch len(arr) {
		case 0:
			delete(r.slots, index)
			return nil, nil
		case 1:
			single = arr[0]
		default:
			return nil, &AmbiguousResultError{Index: index, Remainder: r.detachAll()}
		}
	}

	delete(r.slots, index)

	switch single.(type) {
	case sql.None, sql.Null:
		return nil, nil
	}

	decoded, err := decodeValue[T](single)
	if err != nil {
		return nil, &DecodeError{Index: index, Err: err}
	}
	return &decoded, nil
}

// TakeOneKey extracts field key from the single object result of the
// statement at index, decoded as T. The field is removed from the stored
// object; the rest of the object stays in the slot. A missing field
// yields nil without consuming anything. None/Null results and empty
// objects yield nil and consume the slot. Non-object results yield nil
// without error.
func TakeOneKey[T any](r *Response, index int, key string) (*T, error) {
	s, ok := r.slots[index]
	if !ok {
		return nil, nil
	}
	if s.err != nil {
		return nil, consume(s)
	}

	single := s.value
	if arr, ok := single.(sql.Array); ok {
		switch len(arr) {
		case 0:
			delete(r.slots, index)
			return nil, nil
		case 1:
			single = arr[0]
		default:
			return nil, &AmbiguousResultError{Index: index, Remainder: r.detachAll()}
		}
	}

	switch obj := single.(type) {
	case sql.None, sql.Null:
		delete(r.slots, index)
		return nil, nil
	case sql.Object:
		if len(obj) == 0 {
			delete(r.slots, index)
			return nil, nil
		}
		field, ok := obj[key]
		if !ok {
			return nil, nil
		}
		delete(obj, key)

		switch field.(type) {
		case sql.None, sql.Null:
			return nil, nil
		}

		decoded, err := decodeValue[T](field)
		if err != nil {
			return nil, &DecodeError{Index: index, Key: key, Err: err}
		}
		return &decoded, nil
	default:
		return nil, nil
	}
}

// TakeOneField is TakeOneKey against the first statement.
func TakeOneField[T any](r *Response, key string) (*T, error) {
	return TakeOneKey[T](r, 0, key)
}

// TakeAll extracts the result of the statement at index as a []T. A
// missing index yields an empty slice. An array result decodes
// element-wise and fails wholesale if any element fails; a lone scalar
// decodes as a one-element slice. None and Null are absent results, not
// scalars: both yield an empty slice. The slot is consumed.
func TakeAll[T any](r *Response, index int) ([]T, error) {
	s, ok := r.slots[index]
	if !ok {
		return []T{}, nil
	}
	if s.err != nil {
		return nil, consume(s)
	}

	delete(r.slots, index)

	var elems sql.Array
	switch v := s.value.(type) {
	case sql.None, sql.Null:
		return []T{}, nil
	case sql.Array:
		elems = v
	default:
		elems = sql.Array{v}
	}

	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		decoded, err := decodeValue[T](elem)
		if err != nil {
			return nil, &DecodeError{Index: index, Err: err}
		}
		out = append(out, decoded)
	}
	return out, nil
}

// TakeAllKey extracts field key from every object element of the array
// result at index, decoded as []T. Elements that are not objects or do
// not contain the field are skipped silently. A non-array result yields
// an empty slice. The slot is consumed.
func TakeAllKey[T any](r *Response, index int, key string) ([]T, error) {
	s, ok := r.slots[index]
	if !ok {
		return []T{}, nil
	}
	if s.err != nil {
		return nil, consume(s)
	}

	delete(r.slots, index)

	arr, ok := s.value.(sql.Array)
	if !ok {
		return []T{}, nil
	}

	fields := make(sql.Array, 0, len(arr))
	for _, elem := range arr {
		obj, ok := elem.(sql.Object)
		if !ok {
			continue
		}
		if field, ok := obj[key]; ok {
			delete(obj, key)
			fields = append(fields, field)
		}
	}

	out := make([]T, 0, len(fields))
	for _, field := range fields {
		decoded, err := decodeValue[T](field)
		if err != nil {
			return nil, &DecodeError{Index: index, Key: key, Err: err}
		}
		out = append(out, decoded)
	}
	return out, nil
}

// TakeAllField is TakeAllKey against the first statement.
func TakeAllField[T any](r *Response, key string) ([]T, error) {
	return TakeAllKey[T](r, 0, key)
}
