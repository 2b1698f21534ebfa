package sql

import (
	"github.com/briarql/briarql/internal/dberrors"
)

// parser walks a flat token slice with one token of lookahead, the same
// structure as a tokenize-then-descend WHERE-clause parser generalized to a full
// grammar (spec.md §4.4's EBNF, ported from original_source/src/parser.py).
type parser struct {
	tokens []Token
	pos    int
}

// Parse tokenizes and parses one statement per spec.md §4.4's grammar,
// returning a dberrors.Syntax error on any failure: a grammar error names
// the offending token's kind and text, a tokenizer error names the
// offending character or literal and its position.
func Parse(query string) (*Statement, error) {
	tokens, err := tokenize(query)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != TokenEOF {
		return nil, p.errorf("unexpected %s %q after complete statement", p.peek().Kind, p.peek().Text)
	}
	return stmt, nil
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return Token{}, p.errorf("expected %s, found %s %q", kind, t.Kind, t.Text)
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return dberrors.New(dberrors.Syntax, format, args...)
}

func (p *parser) parseStatement() (*Statement, error) {
	switch p.peek().Kind {
	case TokenCreate:
		return p.parseCreate()
	case TokenInsert:
		return p.parseInsert()
	case TokenSelect:
		return p.parseSelect()
	case TokenUpdate:
		return p.parseUpdate()
	case TokenDelete:
		return p.parseDelete()
	default:
		return nil, p.errorf("expected a statement, found %s %q", p.peek().Kind, p.peek().Text)
	}
}

// create = CREATE TABLE id "(" id {"," id} ")"
func (p *parser) parseCreate() (*Statement, error) {
	if _, err := p.expect(TokenCreate); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenTable); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	columns, err := p.parseIdentifierList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &Statement{Kind: StatementCreate, TableName: name.Text, Columns: columns}, nil
}

func (p *parser) parseIdentifierList() ([]string, error) {
	first, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	ids := []string{first.Text}
	for p.peek().Kind == TokenComma {
		p.advance()
		id, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id.Text)
	}
	return ids, nil
}

// insert = INSERT INTO id VALUES "(" value {"," value} ")"
func (p *parser) parseInsert() (*Statement, error) {
	if _, err := p.expect(TokenInsert); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenInto); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenValues); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	values, err := p.parseValueList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &Statement{Kind: StatementInsert, TableName: name.Text, Values: values}, nil
}

func (p *parser) parseValueList() ([]Value, error) {
	first, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	values := []Value{first}
	for p.peek().Kind == TokenComma {
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// value = string_literal | integer_literal
func (p *parser) parseValue() (Value, error) {
	t := p.peek()
	switch t.Kind {
	case TokenString:
		p.advance()
		return Value{IsString: true, Str: t.Text}, nil
	case TokenInteger:
		p.advance()
		return Value{Int: t.Int}, nil
	default:
		return Value{}, p.errorf("expected a string or integer literal, found %s %q", t.Kind, t.Text)
	}
}

// select = SELECT select_list FROM id
// select_list = "*" | id {"," id}
func (p *parser) parseSelect() (*Statement, error) {
	if _, err := p.expect(TokenSelect); err != nil {
		return nil, err
	}
	stmt := &Statement{Kind: StatementSelect}
	if p.peek().Kind == TokenStar {
		p.advance()
		stmt.SelectAll = true
	} else {
		cols, err := p.parseIdentifierList()
		if err != nil {
			return nil, err
		}
		stmt.SelectColumns = cols
	}
	if _, err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	stmt.TableName = name.Text
	return stmt, nil
}

// update = UPDATE id SET set_clause where_clause
func (p *parser) parseUpdate() (*Statement, error) {
	if _, err := p.expect(TokenUpdate); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSet); err != nil {
		return nil, err
	}
	set, err := p.parseSetClause()
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhereClause()
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: StatementUpdate, TableName: name.Text, Set: set, Where: where}, nil
}

// set_clause = id "=" value
func (p *parser) parseSetClause() (SetClause, error) {
	col, err := p.expect(TokenIdentifier)
	if err != nil {
		return SetClause{}, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return SetClause{}, err
	}
	v, err := p.parseValue()
	if err != nil {
		return SetClause{}, err
	}
	return SetClause{Column: col.Text, Value: v}, nil
}

// where_clause = WHERE id "=" value
func (p *parser) parseWhereClause() (WhereClause, error) {
	if _, err := p.expect(TokenWhere); err != nil {
		return WhereClause{}, err
	}
	col, err := p.expect(TokenIdentifier)
	if err != nil {
		return WhereClause{}, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return WhereClause{}, err
	}
	v, err := p.parseValue()
	if err != nil {
		return WhereClause{}, err
	}
	return WhereClause{Column: col.Text, Value: v}, nil
}

// delete = DELETE FROM id where_clause
func (p *parser) parseDelete() (*Statement, error) {
	if _, err := p.expect(TokenDelete); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhereClause()
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: StatementDelete, TableName: name.Text, Where: where}, nil
}
