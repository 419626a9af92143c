package db

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"

	"github.com/harborne/LagoonDB/ps"
	"github.com/harborne/LagoonDB/sql"
)

// exportLine is one record in an export stream. Data holds the tagged
// binary encoding of the record, base64-wrapped, so values round-trip
// with their tags intact. Display carries a human-readable rendering and
// is ignored on import.
type exportLine struct {
	Table   string `json:"table"`
	ID      string `json:"id"`
	Data    string `json:"data"`
	Display string `json:"display,omitempty"`
}

// Export writes every record of the selected database to target as JSON
// lines. Target may be a local path, file://, or s3:// URL.
func (e *Engine) Export(target string, cfg *RemoteConfig) error {
	if err := e.session(); err != nil {
		return err
	}

	entries, err := e.store.ListDir(path.Join(e.namespace, e.database))
	if err != nil {
		return err
	}

	writer, err := openRemoteWriter(target, cfg)
	if err != nil {
		return err
	}
	defer writer.Close()

	buffered := bufio.NewWriter(writer)
	encoder := json.NewEncoder(buffered)

	for _, entry := range entries {
		if !entry.IsDir {
			continue
		}
		records, err := e.scanTable(entry.Name)
		if err != nil {
			return err
		}
		for _, record := range records {
			rid, ok := record["id"].(sql.RecordID)
			if !ok {
				continue
			}
			data, err := sql.Encode(record)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", rid, err)
			}
			line := exportLine{
				Table:   entry.Name,
				ID:      rid.ID,
				Data:    base64.StdEncoding.EncodeToString(data),
				Display: sql.FormatValue(record),
			}
			if err := encoder.Encode(line); err != nil {
				return err
			}
		}
	}

	if err := buffered.Flush(); err != nil {
		return err
	}
	return writer.Close()
}

// Import reads an export stream from source into the selected database,
// committing all records as one transaction. Source may be a local path,
// file://, http(s)://, or s3:// URL. Existing records with matching ids
// are overwritten.
func (e *Engine) Import(source string, cfg *RemoteConfig) error {
	if err := e.session(); err != nil {
		return err
	}

	reader, err := openRemoteReader(source, cfg)
	if err != nil {
		return err
	}
	defer reader.Close()

	var changes []ps.Change
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		var line exportLine
		if err := json.Unmarshal(text, &line); err != nil {
			return fmt.Errorf("malformed import line %d: %w", lineNo, err)
		}
		data, err := base64.StdEncoding.DecodeString(line.Data)
		if err != nil {
			return fmt.Errorf("malformed import line %d: %w", lineNo, err)
		}

		// Decode to verify the payload before it lands in storage.
		v, err := sql.Decode(data)
		if err != nil {
			return fmt.Errorf("malformed record at line %d: %w", lineNo, err)
		}
		if _, ok := v.(sql.Object); !ok {
			return fmt.Errorf("malformed record at line %d: not an object", lineNo)
		}

		changes = append(changes, ps.Change{
			Path: e.recordPath(line.Table, line.ID),
			Data: data,
		})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if len(changes) == 0 {
		return nil
	}
	return e.write(changes, fmt.Sprintf("IMPORT %s", source))
}
