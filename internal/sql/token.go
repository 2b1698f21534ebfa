// Package sql implements the SQL Front-End of spec.md §4.4: a tokenizer
// and a hand-written recursive-descent parser over the exact EBNF grammar
// spec.md specifies, producing a tagged Statement value the catalog
// executor dispatches on.
//
// The shape (tokenize fully, then descend over a token slice) follows the
// teacher's internal/parser/where.go idiom; unlike where.go this package
// parses a real grammar instead of sniffing keywords out of a flat
// condition string.
package sql

import "fmt"

// TokenKind tags one lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdentifier
	TokenString
	TokenInteger
	TokenComma
	TokenLParen
	TokenRParen
	TokenEquals
	TokenStar

	// Keywords, case-insensitively recognized and reported distinctly
	// from plain identifiers so the parser can match on kind alone.
	TokenCreate
	TokenTable
	TokenInsert
	TokenInto
	TokenValues
	TokenSelect
	TokenFrom
	TokenUpdate
	TokenSet
	TokenWhere
	TokenDelete
)

var keywords = map[string]TokenKind{
	"create": TokenCreate,
	"table":  TokenTable,
	"insert": TokenInsert,
	"into":   TokenInto,
	"values": TokenValues,
	"select": TokenSelect,
	"from":   TokenFrom,
	"update": TokenUpdate,
	"set":    TokenSet,
	"where":  TokenWhere,
	"delete": TokenDelete,
}

// Token is one lexical unit together with its source position (a rune
// offset into the original query). Syntax errors from the parser name the
// offending token's kind and text; only the tokenizer's own errors name a
// position.
type Token struct {
	Kind TokenKind
	Text string
	Int  int64
	Pos  int
}

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return "identifier"
	case TokenString:
		return "string literal"
	case TokenInteger:
		return "integer literal"
	case TokenComma:
		return "','"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenEquals:
		return "'='"
	case TokenStar:
		return "'*'"
	case TokenCreate:
		return "CREATE"
	case TokenTable:
		return "TABLE"
	case TokenInsert:
		return "INSERT"
	case TokenInto:
		return "INTO"
	case TokenValues:
		return "VALUES"
	case TokenSelect:
		return "SELECT"
	case TokenFrom:
		return "FROM"
	case TokenUpdate:
		return "UPDATE"
	case TokenSet:
		return "SET"
	case TokenWhere:
		return "WHERE"
	case TokenDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}
