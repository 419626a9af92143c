package db

import (
	"sort"
	"time"

	"github.com/harborne/LagoonDB/sql"
)

// Stats holds the per-statement execution statistics.
type Stats struct {
	ExecutionTime time.Duration
}

// slot is one statement's outcome: a value on success, an error on
// failure, never both.
type slot struct {
	value sql.Value
	err   error
}

// Response holds the outcome of a batch of statements, one slot per
// submitted statement, indexed by submission position starting at zero.
// Typed extraction consumes slots; statistics are kept separately and
// survive consumption.
type Response struct {
	stats map[int]Stats
	slots map[int]*slot
	next  int
}

// NewResponse returns an empty response. Outcomes are appended with Push
// in statement submission order.
func NewResponse() *Response {
	return &Response{
		stats: make(map[int]Stats),
		slots: make(map[int]*slot),
	}
}

// Push appends the outcome of the next statement. Exactly one of value
// and err is meaningful.
func (r *Response) Push(stats Stats, value sql.Value, err error) {
	index := r.next
	r.next++
	r.stats[index] = stats
	if err != nil {
		r.slots[index] = &slot{err: err}
		return
	}
	if value == nil {
		value = sql.None{}
	}
	r.slots[index] = &slot{value: value}
}

// Len returns the number of statements the response was built from. It is
// not affected by consumption.
func (r *Response) Len() int {
	return len(r.stats)
}

// Indexes lists the indexes of slots not yet consumed, in ascending order.
func (r *Response) Indexes() []int {
	indexes := make([]int, 0, len(r.slots))
	for index := range r.slots {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	return indexes
}

// Stats returns the execution statistics recorded for the statement at
// index. The lookup is read-only: it never consumes anything and is
// unaffected by prior extraction from the same index.
func (r *Response) Stats(index int) (Stats, bool) {
	stats, ok := r.stats[index]
	return stats, ok
}

// detachAll moves every remaining slot out of r into a fresh response,
// leaving r empty. Statistics move along with the slots.
func (r *Response) detachAll() *Response {
	moved := &Response{
		stats: r.stats,
		slots: r.slots,
		next:  r.next,
	}
	r.stats = make(map[int]Stats)
	r.slots = make(map[int]*slot)
	r.next = 0
	return moved
}
