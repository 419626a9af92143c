package db

import (
	"errors"
	"fmt"
)

// ErrSlotConsumed is the placeholder left behind once a statement failure
// has been observed. A second extraction attempt at the same index sees
// this error, never the original failure again.
var ErrSlotConsumed = errors.New("result has already been taken from this response")

// AmbiguousResultError reports a single-result extraction against a
// statement that produced more than one result. The entire remaining
// response, offending slot included, moves into Remainder so the caller
// can still extract other indexes from it.
type AmbiguousResultError struct {
	Index     int
	Remainder *Response
}

func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("statement %d returned more than one result; the response has been reattached", e.Index)
}

// DecodeError reports a failure converting a statement result into the
// caller's requested type.
type DecodeError struct {
	Index int
	Key   string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("failed to decode field %q of statement %d: %v", e.Key, e.Index, e.Err)
	}
	return fmt.Sprintf("failed to decode result of statement %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
