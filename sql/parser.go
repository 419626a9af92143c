package sql

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// ParseError reports a malformed query, with the byte offset of the
// offending token.
type ParseError struct {
	Message string
	Pos     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Message)
}

type Parser struct {
	lexer   *Lexer
	current Token
}

func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.advance()
	return p
}

// Parse parses a query into its ordered statement sequence. Statements are
// separated by semicolons; order is preserved exactly as written.
func Parse(input string) ([]Statement, error) {
	p := NewParser(input)
	var statements []Statement
	for {
		for p.current.Type == TokSemicolon {
			p.advance()
		}
		if p.current.Type == TokEOF {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
		if p.current.Type != TokSemicolon && p.current.Type != TokEOF {
			return nil, p.errorf("expected ; after statement, found %q", p.current.Value)
		}
	}
	return statements, nil
}

func (p *Parser) advance() {
	p.current = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Pos: p.current.Pos}
}

func (p *Parser) expect(t TokenType, what string) (Token, error) {
	if p.current.Type != t {
		return Token{}, p.errorf("expected %s, found %q", what, p.current.Value)
	}
	tok := p.current
	p.advance()
	return tok, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	switch p.current.Type {
	case TokUse:
		return p.parseUse()
	case TokLet:
		return p.parseLet()
	case TokBegin:
		p.advance()
		p.skipTransactionKeyword()
		return BeginStatement{}, nil
	case TokCancel:
		p.advance()
		p.skipTransactionKeyword()
		return CancelStatement{}, nil
	case TokCommit:
		p.advance()
		p.skipTransactionKeyword()
		return CommitStatement{}, nil
	case TokSelect:
		return p.parseSelect()
	case TokCreate:
		return p.parseCreate()
	case TokUpdate:
		return p.parseUpdate()
	case TokRelate:
		return p.parseRelate()
	case TokDelete:
		return p.parseDelete()
	case TokInsert:
		return p.parseInsert()
	case TokDefine:
		return p.parseDefine()
	case TokRemove:
		return p.parseRemove()
	case TokOption:
		return p.parseOption()
	case TokInfo:
		return p.parseInfo()
	case TokLive:
		return p.parseLive()
	case TokKill:
		p.advance()
		id, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return KillStatement{ID: id}, nil
	case TokReturn:
		p.advance()
		what, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ReturnStatement{What: what}, nil
	default:
		return nil, p.errorf("unexpected token %q at start of statement", p.current.Value)
	}
}

func (p *Parser) skipTransactionKeyword() {
	if p.current.Type == TokTransaction {
		p.advance()
	}
}

func (p *Parser) parseUse() (Statement, error) {
	p.advance()
	var stmt UseStatement
	for p.current.Type == TokNamespace || p.current.Type == TokDatabase {
		level := p.current.Type
		p.advance()
		name, err := p.expect(TokIdent, "namespace or database name")
		if err != nil {
			return nil, err
		}
		if level == TokNamespace {
			stmt.Namespace = name.Value
		} else {
			stmt.Database = name.Value
		}
	}
	if stmt.Namespace == "" && stmt.Database == "" {
		return nil, p.errorf("USE requires NS or DB")
	}
	return stmt, nil
}

func (p *Parser) parseLet() (Statement, error) {
	p.advance()
	name, err := p.expect(TokParam, "$parameter")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokEquals, "="); err != nil {
		return nil, err
	}
	what, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return SetStatement{Name: name.Value, What: what}, nil
}

func (p *Parser) parseSelect() (Statement, error) {
	p.advance()
	var stmt SelectStatement

	if p.current.Type == TokStar {
		stmt.AllFields = true
		p.advance()
	} else {
		for {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			field := SelectField{Expr: expr}
			if p.current.Type == TokAs {
				p.advance()
				alias, err := p.expect(TokIdent, "alias")
				if err != nil {
					return nil, err
				}
				field.Alias = alias.Value
			}
			stmt.Fields = append(stmt.Fields, field)
			if p.current.Type != TokComma {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(TokFrom, "FROM"); err != nil {
		return nil, err
	}
	for {
		target, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Targets = append(stmt.Targets, target)
		if p.current.Type != TokComma {
			break
		}
		p.advance()
	}

	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where

	if p.current.Type == TokGroup {
		p.advance()
		if _, err := p.expect(TokAll, "ALL"); err != nil {
			return nil, err
		}
		if stmt.AllFields {
			return nil, p.errorf("GROUP ALL requires a field list, not *")
		}
		stmt.GroupAll = true
	}
	return stmt, nil
}

func (p *Parser) parseCreate() (Statement, error) {
	p.advance()
	var stmt CreateStatement
	if p.current.Type == TokPipe {
		bulk, err := p.parseBulkTarget()
		if err != nil {
			return nil, err
		}
		stmt.Bulk = bulk
	} else {
		target, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Target = target
	}
	switch p.current.Type {
	case TokContent:
		p.advance()
		content, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Content = content
	case TokSet:
		fields, err := p.parseSetFields()
		if err != nil {
			return nil, err
		}
		stmt.Set = fields
	}
	return stmt, nil
}

// parseBulkTarget parses |table:count| and |table:start..end|.
func (p *Parser) parseBulkTarget() (*BulkTarget, error) {
	p.advance() // consume |
	table, err := p.expect(TokIdent, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon, ":"); err != nil {
		return nil, err
	}
	first, err := p.expect(TokInt, "record count")
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(first.Value, 10, 64)
	if err != nil || n < 1 {
		return nil, p.errorf("invalid record count %q", first.Value)
	}

	bulk := &BulkTarget{Table: table.Value, Count: n}
	if p.current.Type == TokRange {
		p.advance()
		second, err := p.expect(TokInt, "range end")
		if err != nil {
			return nil, err
		}
		end, err := strconv.ParseInt(second.Value, 10, 64)
		if err != nil || end < n {
			return nil, p.errorf("invalid record range %s..%s", first.Value, second.Value)
		}
		bulk.Range = true
		bulk.Start = n
		bulk.End = end
		bulk.Count = end - n + 1
	}
	if _, err := p.expect(TokPipe, "|"); err != nil {
		return nil, err
	}
	return bulk, nil
}

func (p *Parser) parseUpdate() (Statement, error) {
	p.advance()
	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt := UpdateStatement{Target: target}
	switch p.current.Type {
	case TokContent:
		p.advance()
		content, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Content = content
	case TokMerge:
		p.advance()
		patch, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Merge = patch
	case TokSet:
		fields, err := p.parseSetFields()
		if err != nil {
			return nil, err
		}
		stmt.Set = fields
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where
	return stmt, nil
}

func (p *Parser) parseRelate() (Statement, error) {
	p.advance()
	from, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokArrow, "->"); err != nil {
		return nil, err
	}
	edge, err := p.expect(TokIdent, "edge table")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokArrow, "->"); err != nil {
		return nil, err
	}
	to, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt := RelateStatement{From: from, Edge: edge.Value, To: to}
	if p.current.Type == TokContent {
		p.advance()
		content, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Content = content
	}
	return stmt, nil
}

func (p *Parser) parseDelete() (Statement, error) {
	p.advance()
	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	return DeleteStatement{Target: target, Where: where}, nil
}

func (p *Parser) parseInsert() (Statement, error) {
	p.advance()
	if _, err := p.expect(TokInto, "INTO"); err != nil {
		return nil, err
	}
	table, err := p.expect(TokIdent, "table name")
	if err != nil {
		return nil, err
	}
	data, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt := InsertStatement{Table: table.Value}
	if arr, ok := data.(ArrayExpr); ok {
		stmt.Values = arr.Elems
	} else if lit, ok := data.(LiteralExpr); ok {
		if arr, ok := lit.Value.(Array); ok {
			for _, e := range arr {
				stmt.Values = append(stmt.Values, LiteralExpr{Value: e})
			}
		} else {
			stmt.Values = []Expr{data}
		}
	} else {
		stmt.Values = []Expr{data}
	}
	return stmt, nil
}

func (p *Parser) parseDefine() (Statement, error) {
	p.advance()
	kind, err := p.parseSchemaKind()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent, "name")
	if err != nil {
		return nil, err
	}
	return DefineStatement{Kind: kind, Name: name.Value}, nil
}

func (p *Parser) parseRemove() (Statement, error) {
	p.advance()
	kind, err := p.parseSchemaKind()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent, "name")
	if err != nil {
		return nil, err
	}
	return RemoveStatement{Kind: kind, Name: name.Value}, nil
}

func (p *Parser) parseSchemaKind() (string, error) {
	switch p.current.Type {
	case TokNamespace:
		p.advance()
		return "NAMESPACE", nil
	case TokDatabase:
		p.advance()
		return "DATABASE", nil
	case TokTable:
		p.advance()
		return "TABLE", nil
	default:
		return "", p.errorf("expected NAMESPACE, DATABASE or TABLE, found %q", p.current.Value)
	}
}

func (p *Parser) parseOption() (Statement, error) {
	p.advance()
	name, err := p.expect(TokIdent, "option name")
	if err != nil {
		return nil, err
	}
	stmt := OptionStatement{Name: name.Value, Enabled: true}
	if p.current.Type == TokEquals {
		p.advance()
		switch p.current.Type {
		case TokTrue:
			stmt.Enabled = true
		case TokFalse:
			stmt.Enabled = false
		default:
			return nil, p.errorf("expected true or false, found %q", p.current.Value)
		}
		p.advance()
	}
	return stmt, nil
}

func (p *Parser) parseInfo() (Statement, error) {
	p.advance()
	if _, err := p.expect(TokFor, "FOR"); err != nil {
		return nil, err
	}
	switch p.current.Type {
	case TokRoot:
		p.advance()
		return InfoStatement{Level: "ROOT"}, nil
	case TokNamespace:
		p.advance()
		return InfoStatement{Level: "NS"}, nil
	case TokDatabase:
		p.advance()
		return InfoStatement{Level: "DB"}, nil
	default:
		return nil, p.errorf("expected ROOT, NS or DB, found %q", p.current.Value)
	}
}

func (p *Parser) parseLive() (Statement, error) {
	p.advance()
	if _, err := p.expect(TokSelect, "SELECT"); err != nil {
		return nil, err
	}
	if p.current.Type == TokStar {
		p.advance()
	}
	if _, err := p.expect(TokFrom, "FROM"); err != nil {
		return nil, err
	}
	table, err := p.expect(TokIdent, "table name")
	if err != nil {
		return nil, err
	}
	return LiveStatement{Table: table.Value}, nil
}

func (p *Parser) parseSetFields() ([]SetField, error) {
	p.advance() // consume SET
	var fields []SetField
	for {
		name, err := p.expect(TokIdent, "field name")
		if err != nil {
			return nil, err
		}
		field := name.Value
		for p.current.Type == TokDot {
			p.advance()
			part, err := p.expect(TokIdent, "field name")
			if err != nil {
				return nil, err
			}
			field += "." + part.Value
		}
		if _, err := p.expect(TokEquals, "="); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, SetField{Field: field, Value: value})
		if p.current.Type != TokComma {
			break
		}
		p.advance()
	}
	return fields, nil
}

func (p *Parser) parseWhere() (*WhereClause, error) {
	if p.current.Type != TokWhere {
		return nil, nil
	}
	p.advance()
	clause := &WhereClause{}
	for {
		name, err := p.expect(TokIdent, "field name")
		if err != nil {
			return nil, err
		}
		field := name.Value
		for p.current.Type == TokDot {
			p.advance()
			part, err := p.expect(TokIdent, "field name")
			if err != nil {
				return nil, err
			}
			field += "." + part.Value
		}
		var op Operator
		switch p.current.Type {
		case TokEquals:
			op = EqualsOperator
		case TokNotEquals:
			op = NotEqualsOperator
		default:
			return nil, p.errorf("expected comparison operator, found %q", p.current.Value)
		}
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		clause.Conditions = append(clause.Conditions, WhereCondition{
			Field:    field,
			Operator: op,
			Value:    value,
		})
		if p.current.Type != TokAnd {
			break
		}
		p.advance()
	}
	return clause, nil
}

func (p *Parser) parseExpr() (Expr, error) {
	switch p.current.Type {
	case TokString:
		v := String(p.current.Value)
		p.advance()
		return LiteralExpr{Value: v}, nil
	case TokInt:
		n, err := strconv.ParseInt(p.current.Value, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer %q", p.current.Value)
		}
		p.advance()
		return LiteralExpr{Value: Int(n)}, nil
	case TokFloat:
		f, err := strconv.ParseFloat(p.current.Value, 64)
		if err != nil {
			return nil, p.errorf("invalid float %q", p.current.Value)
		}
		p.advance()
		return LiteralExpr{Value: Float(f)}, nil
	case TokDecimal:
		d, err := NewDecimal(p.current.Value)
		if err != nil {
			return nil, p.errorf("invalid decimal %q", p.current.Value)
		}
		p.advance()
		return LiteralExpr{Value: d}, nil
	case TokDuration:
		dur, err := time.ParseDuration(p.current.Value)
		if err != nil {
			return nil, p.errorf("invalid duration %q", p.current.Value)
		}
		p.advance()
		return LiteralExpr{Value: Duration(dur)}, nil
	case TokDatetime:
		ts, err := dateparse.ParseStrict(p.current.Value)
		if err != nil {
			return nil, p.errorf("invalid datetime %q", p.current.Value)
		}
		p.advance()
		return LiteralExpr{Value: Datetime(ts)}, nil
	case TokTrue:
		p.advance()
		return LiteralExpr{Value: Bool(true)}, nil
	case TokFalse:
		p.advance()
		return LiteralExpr{Value: Bool(false)}, nil
	case TokNull:
		p.advance()
		return LiteralExpr{Value: Null{}}, nil
	case TokNone:
		p.advance()
		return LiteralExpr{Value: None{}}, nil
	case TokParam:
		name := p.current.Value
		p.advance()
		return ParamExpr{Name: name}, nil
	case TokLess:
		return p.parseCast()
	case TokLParen:
		return p.parsePoint()
	case TokLBracket:
		return p.parseArray()
	case TokLBrace:
		return p.parseObject()
	case TokIdent:
		return p.parseIdentExpr()
	default:
		return nil, p.errorf("unexpected token %q in expression", p.current.Value)
	}
}

// parseCast parses <type>expr. Only the geometry cast is recognized.
func (p *Parser) parseCast() (Expr, error) {
	p.advance()
	name, err := p.expect(TokIdent, "cast type")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokGreater, ">"); err != nil {
		return nil, err
	}
	what, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return CastExpr{Into: name.Value, What: what}, nil
}

// parsePoint parses a (longitude, latitude) point literal.
func (p *Parser) parsePoint() (Expr, error) {
	p.advance()
	lng, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, ","); err != nil {
		return nil, err
	}
	lat, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	x, okx := literalFloat(lng)
	y, oky := literalFloat(lat)
	if !okx || !oky {
		return nil, p.errorf("point coordinates must be numeric literals")
	}
	return LiteralExpr{Value: Point{x, y}}, nil
}

func literalFloat(e Expr) (float64, bool) {
	lit, ok := e.(LiteralExpr)
	if !ok {
		return 0, false
	}
	return coerceFloat(lit.Value)
}

func (p *Parser) parseArray() (Expr, error) {
	p.advance()
	var elems []Expr
	for p.current.Type != TokRBracket {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.current.Type == TokComma {
			p.advance()
		}
	}
	p.advance()
	return foldArray(elems), nil
}

func (p *Parser) parseObject() (Expr, error) {
	p.advance()
	obj := ObjectExpr{}
	for p.current.Type != TokRBrace {
		var key string
		switch p.current.Type {
		case TokString:
			key = p.current.Value
		case TokIdent, TokTable, TokContent, TokMerge, TokSet:
			// keywords are fine as object keys
			key = p.current.Value
		default:
			return nil, p.errorf("expected object key, found %q", p.current.Value)
		}
		p.advance()
		if _, err := p.expect(TokColon, ":"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		obj.Keys = append(obj.Keys, key)
		obj.Values = append(obj.Values, value)
		if p.current.Type == TokComma {
			p.advance()
		}
	}
	p.advance()
	return foldObject(obj), nil
}

// parseIdentExpr resolves a bare identifier into a record id (tb:id), a
// function call, or a field/table reference.
func (p *Parser) parseIdentExpr() (Expr, error) {
	name := p.current.Value
	p.advance()

	if p.current.Type == TokColon {
		p.advance()
		var id string
		switch p.current.Type {
		case TokIdent, TokInt, TokString:
			id = p.current.Value
		default:
			return nil, p.errorf("expected record identifier after %q:", name)
		}
		p.advance()
		return LiteralExpr{Value: RecordID{Table: name, ID: id}}, nil
	}

	if p.current.Type == TokLParen {
		p.advance()
		var args []Expr
		for p.current.Type != TokRParen {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current.Type == TokComma {
				p.advance()
			}
		}
		p.advance()
		return CallExpr{Name: name, Args: args}, nil
	}

	for p.current.Type == TokDot {
		p.advance()
		part, err := p.expect(TokIdent, "field name")
		if err != nil {
			return nil, err
		}
		name += "." + part.Value
	}
	return IdentExpr{Name: name}, nil
}

// foldArray collapses an all-literal array expression into a literal.
func foldArray(elems []Expr) Expr {
	arr := make(Array, 0, len(elems))
	for _, e := range elems {
		lit, ok := e.(LiteralExpr)
		if !ok {
			return ArrayExpr{Elems: elems}
		}
		arr = append(arr, lit.Value)
	}
	return LiteralExpr{Value: arr}
}

// foldObject collapses an all-literal object expression into a literal.
func foldObject(obj ObjectExpr) Expr {
	out := make(Object, len(obj.Keys))
	for i, k := range obj.Keys {
		lit, ok := obj.Values[i].(LiteralExpr)
		if !ok {
			return obj
		}
		out[k] = lit.Value
	}
	return LiteralExpr{Value: out}
}
