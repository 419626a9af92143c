package sql

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RecordID addresses a single record: a table name plus an identifier
// unique within that table. Record ids are globally comparable and render
// as table:id.
type RecordID struct {
	Table string
	ID    string
}

func (RecordID) Kind() Kind { return KindRecordID }
func (RecordID) value()     {}

func (r RecordID) String() string {
	return r.Table + ":" + r.ID
}

func (r RecordID) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// NewRecordID generates a record id with a random identifier, used when a
// record is created without an explicit id.
func NewRecordID(table string) RecordID {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return RecordID{Table: table, ID: id}
}

// ParseRecordID parses the table:id form.
func ParseRecordID(s string) (RecordID, error) {
	table, id, ok := strings.Cut(s, ":")
	if !ok || table == "" || id == "" {
		return RecordID{}, fmt.Errorf("invalid record id %q, expected table:id", s)
	}
	return RecordID{Table: table, ID: id}, nil
}
