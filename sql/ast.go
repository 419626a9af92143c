package sql

type StatementType int

const (
	UseStatementType StatementType = iota
	SetStatementType
	BeginStatementType
	CancelStatementType
	CommitStatementType
	SelectStatementType
	CreateStatementType
	UpdateStatementType
	RelateStatementType
	DeleteStatementType
	InsertStatementType
	DefineStatementType
	RemoveStatementType
	OptionStatementType
	InfoStatementType
	LiveStatementType
	KillStatementType
	ReturnStatementType
)

// Statement is one parsed statement of a query. A query is an ordered
// sequence of statements; each produces exactly one slot in the response.
type Statement interface {
	Type() StatementType
}

// Expr is an expression appearing inside a statement: a literal, a $param
// reference, a field name, a cast or a function call.
type Expr interface {
	expr()
}

// LiteralExpr wraps a fully literal value.
type LiteralExpr struct {
	Value Value
}

// ParamExpr references a session parameter set with LET.
type ParamExpr struct {
	Name string
}

// IdentExpr names a field or a table.
type IdentExpr struct {
	Name string
}

// CastExpr is an explicit cast such as <geometry>$val.
type CastExpr struct {
	Into string
	What Expr
}

// CallExpr is a function call such as geo::valid($g).
type CallExpr struct {
	Name string
	Args []Expr
}

// ObjectExpr is an object literal whose field values may be expressions.
type ObjectExpr struct {
	Keys   []string
	Values []Expr
}

// ArrayExpr is an array literal whose elements may be expressions.
type ArrayExpr struct {
	Elems []Expr
}

func (LiteralExpr) expr() {}
func (ParamExpr) expr()   {}
func (IdentExpr) expr()   {}
func (CastExpr) expr()    {}
func (CallExpr) expr()    {}
func (ObjectExpr) expr()  {}
func (ArrayExpr) expr()   {}

type Operator int

const (
	EqualsOperator Operator = iota
	NotEqualsOperator
)

// WhereClause is a conjunction of simple field comparisons.
type WhereClause struct {
	Conditions []WhereCondition
}

type WhereCondition struct {
	Field    string
	Operator Operator
	Value    Expr
}

// SetField is one field assignment in a SET clause.
type SetField struct {
	Field string
	Value Expr
}

type UseStatement struct {
	Namespace string
	Database  string
}

// SetStatement binds a session parameter: LET $name = expr.
type SetStatement struct {
	Name string
	What Expr
}

type BeginStatement struct{}

type CancelStatement struct{}

type CommitStatement struct{}

type SelectField struct {
	Expr  Expr
	Alias string
}

type SelectStatement struct {
	AllFields bool
	Fields    []SelectField
	Targets   []Expr
	Where     *WhereClause
	GroupAll  bool
}

// BulkTarget is the |table:count| or |table:start..end| create form. The
// count form generates random record ids; the range form uses the integer
// ids start through end inclusive.
type BulkTarget struct {
	Table string
	Count int64
	Start int64
	End   int64
	Range bool
}

type CreateStatement struct {
	Target  Expr
	Bulk    *BulkTarget
	Content Expr
	Set     []SetField
}

type UpdateStatement struct {
	Target  Expr
	Content Expr
	Merge   Expr
	Set     []SetField
	Where   *WhereClause
}

type RelateStatement struct {
	From    Expr
	Edge    string
	To      Expr
	Content Expr
}

type DeleteStatement struct {
	Target Expr
	Where  *WhereClause
}

type InsertStatement struct {
	Table  string
	Values []Expr
}

type DefineStatement struct {
	Kind string // NAMESPACE, DATABASE or TABLE
	Name string
}

type RemoveStatement struct {
	Kind string
	Name string
}

type OptionStatement struct {
	Name    string
	Enabled bool
}

type InfoStatement struct {
	Level string // ROOT, NS or DB
}

type LiveStatement struct {
	Table string
}

type KillStatement struct {
	ID Expr
}

// ReturnStatement evaluates an expression and yields it as the statement
// result.
type ReturnStatement struct {
	What Expr
}

func (UseStatement) Type() StatementType    { return UseStatementType }
func (SetStatement) Type() StatementType    { return SetStatementType }
func (BeginStatement) Type() StatementType  { return BeginStatementType }
func (CancelStatement) Type() StatementType { return CancelStatementType }
func (CommitStatement) Type() StatementType { return CommitStatementType }
func (SelectStatement) Type() StatementType { return SelectStatementType }
func (CreateStatement) Type() StatementType { return CreateStatementType }
func (UpdateStatement) Type() StatementType { return UpdateStatementType }
func (RelateStatement) Type() StatementType { return RelateStatementType }
func (DeleteStatement) Type() StatementType { return DeleteStatementType }
func (InsertStatement) Type() StatementType { return InsertStatementType }
func (DefineStatement) Type() StatementType { return DefineStatementType }
func (RemoveStatement) Type() StatementType { return RemoveStatementType }
func (OptionStatement) Type() StatementType { return OptionStatementType }
func (InfoStatement) Type() StatementType   { return InfoStatementType }
func (LiveStatement) Type() StatementType   { return LiveStatementType }
func (KillStatement) Type() StatementType   { return KillStatementType }
func (ReturnStatement) Type() StatementType { return ReturnStatementType }
