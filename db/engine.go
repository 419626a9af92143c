package db

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborne/LagoonDB/core"
	"github.com/harborne/LagoonDB/ps"
	"github.com/harborne/LagoonDB/sql"
)

// Engine executes statements against the persistence layer and builds the
// response map consumed through typed extraction. An Engine carries one
// session: selected namespace and database, parameters bound with LET and
// any open transaction. It is not safe for concurrent use; callers that
// share a store across goroutines create one Engine per session.
type Engine struct {
	store    *ps.Persistence
	identity core.Identity

	namespace string
	database  string
	params    map[string]sql.Value
	options   map[string]bool
	live      map[string]string
	batch     *ps.Batch
}

func NewEngine(store *ps.Persistence, identity core.Identity) *Engine {
	return &Engine{
		store:    store,
		identity: identity,
		params:   make(map[string]sql.Value),
		options:  make(map[string]bool),
		live:     make(map[string]string),
	}
}

// Execute runs a batch of statements and returns one response slot per
// statement, in submission order. A statement failure lands in its own
// slot; later statements still run. Execute itself fails only when the
// input cannot be turned into a statement sequence.
func (e *Engine) Execute(input any) (*Response, error) {
	statements, err := sql.IntoStatements(input)
	if err != nil {
		return nil, err
	}

	response := NewResponse()
	for _, statement := range statements {
		start := time.Now()
		value, err := e.execStatement(statement)
		response.Push(Stats{ExecutionTime: time.Since(start)}, value, err)
	}
	return response, nil
}

func (e *Engine) execStatement(statement sql.Statement) (sql.Value, error) {
	switch t := statement.(type) {
	case sql.UseStatement:
		return e.execUse(t)
	case sql.SetStatement:
		return e.execSet(t)
	case sql.BeginStatement:
		return e.execBegin()
	case sql.CommitStatement:
		return e.execCommit()
	case sql.CancelStatement:
		return e.execCancel()
	case sql.SelectStatement:
		return e.execSelect(t)
	case sql.CreateStatement:
		return e.execCreate(t)
	case sql.UpdateStatement:
		return e.execUpdate(t)
	case sql.RelateStatement:
		return e.execRelate(t)
	case sql.DeleteStatement:
		return e.execDelete(t)
	case sql.InsertStatement:
		return e.execInsert(t)
	case sql.DefineStatement:
		return e.execDefine(t)
	case sql.RemoveStatement:
		return e.execRemove(t)
	case sql.OptionStatement:
		e.options[strings.ToUpper(t.Name)] = t.Enabled
		return sql.None{}, nil
	case sql.InfoStatement:
		return e.execInfo(t)
	case sql.LiveStatement:
		return e.execLive(t)
	case sql.KillStatement:
		return e.execKill(t)
	case sql.ReturnStatement:
		return e.eval(t.What, nil)
	default:
		return nil, fmt.Errorf("unsupported statement %T", statement)
	}
}

// --- session control ---

func (e *Engine) execUse(use sql.UseStatement) (sql.Value, error) {
	if use.Namespace != "" {
		e.namespace = use.Namespace
	}
	if use.Database != "" {
		e.database = use.Database
	}
	return sql.None{}, nil
}

func (e *Engine) execSet(set sql.SetStatement) (sql.Value, error) {
	v, err := e.eval(set.What, nil)
	if err != nil {
		return nil, err
	}
	e.params[set.Name] = v
	return sql.None{}, nil
}

func (e *Engine) execBegin() (sql.Value, error) {
	if e.batch != nil {
		return nil, fmt.Errorf("transaction already in progress")
	}
	e.batch = e.store.NewBatch()
	return sql.None{}, nil
}

func (e *Engine) execCommit() (sql.Value, error) {
	if e.batch == nil {
		return nil, fmt.Errorf("no transaction in progress")
	}
	_, err := e.batch.Commit(e.identity, "Transaction")
	e.batch = nil
	if err != nil {
		return nil, err
	}
	return sql.None{}, nil
}

func (e *Engine) execCancel() (sql.Value, error) {
	if e.batch == nil {
		return nil, fmt.Errorf("no transaction in progress")
	}
	e.batch.Discard()
	e.batch = nil
	return sql.None{}, nil
}

// --- storage helpers ---

func (e *Engine) session() error {
	if e.namespace == "" || e.database == "" {
		return fmt.Errorf("no namespace or database selected; run USE first")
	}
	return nil
}

func (e *Engine) recordPath(table, id string) string {
	return path.Join(e.namespace, e.database, table, id)
}

func (e *Engine) getFile(filePath string) ([]byte, bool) {
	if e.batch != nil {
		return e.batch.Get(filePath)
	}
	return e.store.Get(filePath)
}

func (e *Engine) listFiles(dir string) (map[string][]byte, error) {
	if e.batch != nil {
		return e.batch.ListFiles(dir)
	}
	return e.store.ListFiles(dir)
}

// write applies a set of changes: staged when a transaction is open,
// committed immediately otherwise.
func (e *Engine) write(changes []ps.Change, message string) error {
	if e.batch != nil {
		for _, change := range changes {
			if change.Delete {
				e.batch.Delete(change.Path)
			} else {
				e.batch.Put(change.Path, change.Data)
			}
		}
		return nil
	}
	_, err := e.store.Apply(changes, e.identity, message)
	return err
}

func (e *Engine) getRecord(table, id string) (sql.Object, bool, error) {
	data, ok := e.getFile(e.recordPath(table, id))
	if !ok {
		return nil, false, nil
	}
	v, err := sql.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt record %s:%s: %w", table, id, err)
	}
	record, ok := v.(sql.Object)
	if !ok {
		return nil, false, fmt.Errorf("corrupt record %s:%s: not an object", table, id)
	}
	return record, true, nil
}

// scanTable reads every record of a table, ordered by id.
func (e *Engine) scanTable(table string) ([]sql.Object, error) {
	files, err := e.listFiles(path.Join(e.namespace, e.database, table))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(files))
	for name := range files {
		if strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, name)
	}
	sort.Strings(ids)

	records := make([]sql.Object, 0, len(ids))
	for _, id := range ids {
		v, err := sql.Decode(files[id])
		if err != nil {
			return nil, fmt.Errorf("corrupt record %s:%s: %w", table, id, err)
		}
		record, ok := v.(sql.Object)
		if !ok {
			return nil, fmt.Errorf("corrupt record %s:%s: not an object", table, id)
		}
		records = append(records, record)
	}
	return records, nil
}

func encodeRecord(table, id string, record sql.Object) (ps.Change, error) {
	data, err := sql.Encode(record)
	if err != nil {
		return ps.Change{}, fmt.Errorf("failed to encode %s:%s: %w", table, id, err)
	}
	return ps.Change{Path: path.Join(table, id), Data: data}, nil
}

// target resolves a statement target into a table and optionally a record
// id.
func (e *Engine) target(expr sql.Expr) (table string, id string, hasID bool, err error) {
	if ident, ok := expr.(sql.IdentExpr); ok {
		return ident.Name, "", false, nil
	}

	v, err := e.eval(expr, nil)
	if err != nil {
		return "", "", false, err
	}
	switch t := v.(type) {
	case sql.RecordID:
		return t.Table, t.ID, true, nil
	case sql.String:
		if strings.Contains(string(t), ":") {
			rid, err := sql.ParseRecordID(string(t))
			if err != nil {
				return "", "", false, err
			}
			return rid.Table, rid.ID, true, nil
		}
		return string(t), "", false, nil
	default:
		return "", "", false, fmt.Errorf("invalid target %s", sql.FormatValue(v))
	}
}

// --- data statements ---

func (e *Engine) execCreate(create sql.CreateStatement) (sql.Value, error) {
	if err := e.session(); err != nil {
		return nil, err
	}
	if create.Bulk != nil {
		return e.execCreateBulk(create)
	}

	table, id, hasID, err := e.target(create.Target)
	if err != nil {
		return nil, err
	}
	if !hasID {
		id = sql.NewRecordID(table).ID
	}

	if _, exists, err := e.getRecord(table, id); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("record already exists: %s:%s", table, id)
	}

	record, err := e.buildRecord(create, table, id)
	if err != nil {
		return nil, err
	}

	change, err := encodeRecord(table, id, record)
	if err != nil {
		return nil, err
	}
	change.Path = path.Join(e.namespace, e.database, change.Path)
	if err := e.write([]ps.Change{change}, fmt.Sprintf("CREATE %s:%s", table, id)); err != nil {
		return nil, err
	}

	return sql.Array{record}, nil
}

// execCreateBulk writes every record of a |table:n| or |table:a..b| create
// as one commit. The range form fails wholesale if any id already exists.
func (e *Engine) execCreateBulk(create sql.CreateStatement) (sql.Value, error) {
	bulk := create.Bulk

	ids := make([]string, 0, bulk.Count)
	if bulk.Range {
		for i := bulk.Start; i <= bulk.End; i++ {
			ids = append(ids, strconv.FormatInt(i, 10))
		}
	} else {
		for i := int64(0); i < bulk.Count; i++ {
			ids = append(ids, sql.NewRecordID(bulk.Table).ID)
		}
	}

	created := make(sql.Array, 0, len(ids))
	changes := make([]ps.Change, 0, len(ids))
	for _, id := range ids {
		if bulk.Range {
			if _, exists, err := e.getRecord(bulk.Table, id); err != nil {
				return nil, err
			} else if exists {
				return nil, fmt.Errorf("record already exists: %s:%s", bulk.Table, id)
			}
		}

		record, err := e.buildRecord(create, bulk.Table, id)
		if err != nil {
			return nil, err
		}
		change, err := encodeRecord(bulk.Table, id, record)
		if err != nil {
			return nil, err
		}
		change.Path = path.Join(e.namespace, e.database, change.Path)
		changes = append(changes, change)
		created = append(created, record)
	}

	if err := e.write(changes, fmt.Sprintf("CREATE |%s| x%d", bulk.Table, len(ids))); err != nil {
		return nil, err
	}
	return created, nil
}

// buildRecord evaluates a create's CONTENT and SET clauses into a fresh
// record carrying its id.
func (e *Engine) buildRecord(create sql.CreateStatement, table, id string) (sql.Object, error) {
	record := sql.Object{}
	if create.Content != nil {
		content, err := e.eval(create.Content, nil)
		if err != nil {
			return nil, err
		}
		obj, ok := content.(sql.Object)
		if !ok {
			return nil, fmt.Errorf("CREATE content must be an object, got %s", sql.FormatValue(content))
		}
		record = sql.Copy(obj).(sql.Object)
	}
	for _, field := range create.Set {
		v, err := e.eval(field.Value, record)
		if err != nil {
			return nil, err
		}
		setField(record, field.Field, v)
	}
	record["id"] = sql.RecordID{Table: table, ID: id}
	return record, nil
}

func (e *Engine) execUpdate(update sql.UpdateStatement) (sql.Value, error) {
	if err := e.session(); err != nil {
		return nil, err
	}

	table, id, hasID, err := e.target(update.Target)
	if err != nil {
		return nil, err
	}

	var records []sql.Object
	if hasID {
		record, exists, err := e.getRecord(table, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			// UPDATE on a specific record upserts.
			record = sql.Object{"id": sql.RecordID{Table: table, ID: id}}
		}
		records = []sql.Object{record}
	} else {
		records, err = e.scanTable(table)
		if err != nil {
			return nil, err
		}
	}

	updated := make(sql.Array, 0, len(records))
	changes := make([]ps.Change, 0, len(records))

	for _, record := range records {
		match, err := e.matches(update.Where, record)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}

		rid, ok := record["id"].(sql.RecordID)
		if !ok {
			return nil, fmt.Errorf("record in %s has no id", table)
		}

		if update.Content != nil {
			content, err := e.eval(update.Content, record)
			if err != nil {
				return nil, err
			}
			obj, ok := content.(sql.Object)
			if !ok {
				return nil, fmt.Errorf("UPDATE content must be an object, got %s", sql.FormatValue(content))
			}
			replacement := sql.Object{}
			for k, v := range obj {
				if k == "id" {
					continue
				}
				replacement[k] = v
			}
			replacement["id"] = rid
			record = replacement
		}
		if update.Merge != nil {
			patch, err := e.eval(update.Merge, record)
			if err != nil {
				return nil, err
			}
			obj, ok := patch.(sql.Object)
			if !ok {
				return nil, fmt.Errorf("UPDATE merge must be an object, got %s", sql.FormatValue(patch))
			}
			record = sql.Merge(record, obj)
		}
		for _, field := range update.Set {
			v, err := e.eval(field.Value, record)
			if err != nil {
				return nil, err
			}
			setField(record, field.Field, v)
		}

		change, err := encodeRecord(table, rid.ID, record)
		if err != nil {
			return nil, err
		}
		change.Path = path.Join(e.namespace, e.database, change.Path)
		changes = append(changes, change)
		updated = append(updated, record)
	}

	if len(changes) > 0 {
		if err := e.write(changes, fmt.Sprintf("UPDATE %s", table)); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (e *Engine) execDelete(del sql.DeleteStatement) (sql.Value, error) {
	if err := e.session(); err != nil {
		return nil, err
	}

	table, id, hasID, err := e.target(del.Target)
	if err != nil {
		return nil, err
	}

	var changes []ps.Change
	switch {
	case hasID:
		record, exists, err := e.getRecord(table, id)
		if err != nil {
			return nil, err
		}
		if exists {
			match, err := e.matches(del.Where, record)
			if err != nil {
				return nil, err
			}
			if match {
				changes = append(changes, ps.Change{Path: e.recordPath(table, id), Delete: true})
			}
		}
	case del.Where == nil:
		changes = append(changes, ps.Change{Path: path.Join(e.namespace, e.database, table), Delete: true})
	default:
		records, err := e.scanTable(table)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			match, err := e.matches(del.Where, record)
			if err != nil {
				return nil, err
			}
			if !match {
				continue
			}
			rid, ok := record["id"].(sql.RecordID)
			if !ok {
				continue
			}
			changes = append(changes, ps.Change{Path: e.recordPath(table, rid.ID), Delete: true})
		}
	}

	if len(changes) > 0 {
		if err := e.write(changes, fmt.Sprintf("DELETE %s", table)); err != nil {
			return nil, err
		}
	}
	return sql.Array{}, nil
}

func (e *Engine) execInsert(insert sql.InsertStatement) (sql.Value, error) {
	if err := e.session(); err != nil {
		return nil, err
	}

	var rows []sql.Object
	for _, expr := range insert.Values {
		v, err := e.eval(expr, nil)
		if err != nil {
			return nil, err
		}
		switch t := v.(type) {
		case sql.Object:
			rows = append(rows, t)
		case sql.Array:
			for _, elem := range t {
				obj, ok := elem.(sql.Object)
				if !ok {
					return nil, fmt.Errorf("INSERT values must be objects, got %s", sql.FormatValue(elem))
				}
				rows = append(rows, obj)
			}
		default:
			return nil, fmt.Errorf("INSERT values must be objects, got %s", sql.FormatValue(v))
		}
	}

	inserted := make(sql.Array, 0, len(rows))
	changes := make([]ps.Change, 0, len(rows))
	for _, row := range rows {
		var id string
		switch rid := row["id"].(type) {
		case sql.RecordID:
			id = rid.ID
		case sql.String:
			id = string(rid)
		default:
			id = sql.NewRecordID(insert.Table).ID
		}
		row["id"] = sql.RecordID{Table: insert.Table, ID: id}

		if _, exists, err := e.getRecord(insert.Table, id); err != nil {
			return nil, err
		} else if exists {
			return nil, fmt.Errorf("record already exists: %s:%s", insert.Table, id)
		}

		change, err := encodeRecord(insert.Table, id, row)
		if err != nil {
			return nil, err
		}
		change.Path = path.Join(e.namespace, e.database, change.Path)
		changes = append(changes, change)
		inserted = append(inserted, row)
	}

	if len(changes) > 0 {
		if err := e.write(changes, fmt.Sprintf("INSERT INTO %s", insert.Table)); err != nil {
			return nil, err
		}
	}
	return inserted, nil
}

func (e *Engine) execRelate(relate sql.RelateStatement) (sql.Value, error) {
	if err := e.session(); err != nil {
		return nil, err
	}

	from, err := e.eval(relate.From, nil)
	if err != nil {
		return nil, err
	}
	to, err := e.eval(relate.To, nil)
	if err != nil {
		return nil, err
	}
	fromID, ok := from.(sql.RecordID)
	if !ok {
		return nil, fmt.Errorf("RELATE source must be a record id, got %s", sql.FormatValue(from))
	}
	toID, ok := to.(sql.RecordID)
	if !ok {
		return nil, fmt.Errorf("RELATE destination must be a record id, got %s", sql.FormatValue(to))
	}

	edge := sql.Object{}
	if relate.Content != nil {
		content, err := e.eval(relate.Content, nil)
		if err != nil {
			return nil, err
		}
		obj, ok := content.(sql.Object)
		if !ok {
			return nil, fmt.Errorf("RELATE content must be an object, got %s", sql.FormatValue(content))
		}
		edge = obj
	}

	id := sql.NewRecordID(relate.Edge).ID
	edge["id"] = sql.RecordID{Table: relate.Edge, ID: id}
	edge["in"] = fromID
	edge["out"] = toID

	change, err := encodeRecord(relate.Edge, id, edge)
	if err != nil {
		return nil, err
	}
	change.Path = path.Join(e.namespace, e.database, change.Path)
	if err := e.write([]ps.Change{change}, fmt.Sprintf("RELATE %s -> %s -> %s", fromID, relate.Edge, toID)); err != nil {
		return nil, err
	}
	return sql.Array{edge}, nil
}

func (e *Engine) execSelect(sel sql.SelectStatement) (sql.Value, error) {
	var rows []sql.Value
	for _, targetExpr := range sel.Targets {
		targetRows, err := e.selectTarget(targetExpr)
		if err != nil {
			return nil, err
		}
		rows = append(rows, targetRows...)
	}

	matched := make(sql.Array, 0, len(rows))
	for _, row := range rows {
		match, err := e.matches(sel.Where, row)
		if err != nil {
			return nil, err
		}
		if match {
			matched = append(matched, row)
		}
	}

	if sel.GroupAll {
		return e.groupAll(sel.Fields, matched)
	}

	if sel.AllFields {
		return matched, nil
	}
	out := make(sql.Array, 0, len(matched))
	for _, row := range matched {
		projected := sql.Object{}
		for _, field := range sel.Fields {
			v, err := e.eval(field.Expr, row)
			if err != nil {
				return nil, err
			}
			projected[fieldName(field)] = v
		}
		out = append(out, projected)
	}
	return out, nil
}

// groupAll collapses the matched rows into a single aggregate row. A bare
// count() becomes the row count; any other field collects its per-row
// values into an array.
func (e *Engine) groupAll(fields []sql.SelectField, rows sql.Array) (sql.Value, error) {
	group := sql.Object{}
	for _, field := range fields {
		if call, ok := field.Expr.(sql.CallExpr); ok && call.Name == "count" && len(call.Args) == 0 {
			group[fieldName(field)] = sql.Int(len(rows))
			continue
		}
		collected := make(sql.Array, 0, len(rows))
		for _, row := range rows {
			v, err := e.eval(field.Expr, row)
			if err != nil {
				return nil, err
			}
			collected = append(collected, v)
		}
		group[fieldName(field)] = collected
	}
	return sql.Array{group}, nil
}

func (e *Engine) selectTarget(expr sql.Expr) ([]sql.Value, error) {
	if ident, ok := expr.(sql.IdentExpr); ok {
		if err := e.session(); err != nil {
			return nil, err
		}
		records, err := e.scanTable(ident.Name)
		if err != nil {
			return nil, err
		}
		rows := make([]sql.Value, len(records))
		for i, record := range records {
			rows[i] = record
		}
		return rows, nil
	}

	v, err := e.eval(expr, nil)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case sql.RecordID:
		if err := e.session(); err != nil {
			return nil, err
		}
		record, exists, err := e.getRecord(t.Table, t.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, nil
		}
		return []sql.Value{record}, nil
	case sql.Array:
		rows := make([]sql.Value, len(t))
		for i, elem := range t {
			rows[i] = elem
		}
		return rows, nil
	case sql.None, sql.Null:
		return nil, nil
	default:
		// Object, geometry and scalar targets select from the value itself.
		return []sql.Value{v}, nil
	}
}

func fieldName(field sql.SelectField) string {
	if field.Alias != "" {
		return field.Alias
	}
	switch t := field.Expr.(type) {
	case sql.IdentExpr:
		return t.Name
	case sql.CallExpr:
		return t.Name
	default:
		return "value"
	}
}

// --- schema statements ---

func (e *Engine) execDefine(define sql.DefineStatement) (sql.Value, error) {
	var marker string
	switch define.Kind {
	case "NAMESPACE":
		marker = path.Join(define.Name, ".namespace")
	case "DATABASE":
		if e.namespace == "" {
			return nil, fmt.Errorf("no namespace selected; run USE first")
		}
		marker = path.Join(e.namespace, define.Name, ".database")
	case "TABLE":
		if err := e.session(); err != nil {
			return nil, err
		}
		marker = path.Join(e.namespace, e.database, define.Name, ".table")
	default:
		return nil, fmt.Errorf("cannot define %s", define.Kind)
	}

	data := []byte(fmt.Sprintf("DEFINE %s %s", define.Kind, define.Name))
	message := fmt.Sprintf("DEFINE %s %s", define.Kind, define.Name)
	if err := e.write([]ps.Change{{Path: marker, Data: data}}, message); err != nil {
		return nil, err
	}
	return sql.None{}, nil
}

func (e *Engine) execRemove(remove sql.RemoveStatement) (sql.Value, error) {
	var target string
	switch remove.Kind {
	case "NAMESPACE":
		target = remove.Name
	case "DATABASE":
		if e.namespace == "" {
			return nil, fmt.Errorf("no namespace selected; run USE first")
		}
		target = path.Join(e.namespace, remove.Name)
	case "TABLE":
		if err := e.session(); err != nil {
			return nil, err
		}
		target = path.Join(e.namespace, e.database, remove.Name)
	default:
		return nil, fmt.Errorf("cannot remove %s", remove.Kind)
	}

	message := fmt.Sprintf("REMOVE %s %s", remove.Kind, remove.Name)
	if err := e.write([]ps.Change{{Path: target, Delete: true}}, message); err != nil {
		return nil, err
	}
	return sql.None{}, nil
}

func (e *Engine) execInfo(info sql.InfoStatement) (sql.Value, error) {
	listing := func(dir, kind string) (sql.Object, error) {
		entries, err := e.store.ListDir(dir)
		if err != nil {
			return nil, err
		}
		out := sql.Object{}
		for _, entry := range entries {
			if entry.IsDir {
				out[entry.Name] = sql.String(fmt.Sprintf("DEFINE %s %s", kind, entry.Name))
			}
		}
		return out, nil
	}

	switch info.Level {
	case "ROOT":
		namespaces, err := listing("", "NAMESPACE")
		if err != nil {
			return nil, err
		}
		return sql.Object{"namespaces": namespaces}, nil
	case "NS":
		if e.namespace == "" {
			return nil, fmt.Errorf("no namespace selected; run USE first")
		}
		databases, err := listing(e.namespace, "DATABASE")
		if err != nil {
			return nil, err
		}
		return sql.Object{"databases": databases}, nil
	case "DB":
		if err := e.session(); err != nil {
			return nil, err
		}
		tables, err := listing(path.Join(e.namespace, e.database), "TABLE")
		if err != nil {
			return nil, err
		}
		return sql.Object{"tables": tables}, nil
	default:
		return nil, fmt.Errorf("cannot inspect %s", info.Level)
	}
}

// --- live queries ---

func (e *Engine) execLive(live sql.LiveStatement) (sql.Value, error) {
	if err := e.session(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	e.live[id] = live.Table
	return sql.String(id), nil
}

func (e *Engine) execKill(kill sql.KillStatement) (sql.Value, error) {
	v, err := e.eval(kill.ID, nil)
	if err != nil {
		return nil, err
	}
	id, ok := v.(sql.String)
	if !ok {
		return nil, fmt.Errorf("KILL expects a live query id, got %s", sql.FormatValue(v))
	}
	if _, ok := e.live[string(id)]; !ok {
		return nil, fmt.Errorf("no live query with id %s", id)
	}
	delete(e.live, string(id))
	return sql.None{}, nil
}
