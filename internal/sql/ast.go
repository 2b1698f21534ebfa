package sql

// Value is a parsed literal as it appeared in the source text: either a
// quoted string or an unsigned integer. The catalog executor, not this
// package, decides whether a quoted string should ultimately be stored
// as a string or a float (spec.md §4.3's coercion rule, §9's noted
// asymmetry).
type Value struct {
	IsString bool
	Str      string
	Int      int64
}

// Statement is the tagged union spec.md §9 calls for: the executor
// switches on Kind rather than doing a Go type switch, keeping the
// dispatch identical in shape to original_source/src/dbms.py's
// isinstance chain.
type StatementKind int

const (
	StatementCreate StatementKind = iota
	StatementInsert
	StatementSelect
	StatementUpdate
	StatementDelete
)

type SetClause struct {
	Column string
	Value  Value
}

type WhereClause struct {
	Column string
	Value  Value
}

// Statement holds the union of every statement shape's fields; only the
// fields relevant to Kind are populated.
type Statement struct {
	Kind StatementKind

	// CREATE TABLE name (columns...)
	TableName string
	Columns   []string

	// INSERT INTO name VALUES (values...)
	Values []Value

	// SELECT select_list FROM name — SelectAll means "*"; otherwise
	// SelectColumns names the explicit projection list.
	SelectAll     bool
	SelectColumns []string

	// UPDATE name SET set_clause where_clause
	Set SetClause

	// WHERE clause, shared by UPDATE and DELETE.
	Where WhereClause
}
