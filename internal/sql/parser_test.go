package sql

import (
	"strings"
	"testing"

	"github.com/briarql/briarql/internal/dberrors"
)

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE users (id, name, age)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Kind != StatementCreate {
		t.Fatalf("expected StatementCreate, got %v", stmt.Kind)
	}
	if stmt.TableName != "users" {
		t.Fatalf("expected table name users, got %s", stmt.TableName)
	}
	want := []string{"id", "name", "age"}
	if len(stmt.Columns) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(stmt.Columns))
	}
	for i, c := range want {
		if stmt.Columns[i] != c {
			t.Fatalf("column %d: expected %s, got %s", i, c, stmt.Columns[i])
		}
	}
}

func TestParseInsertMixedLiterals(t *testing.T) {
	stmt, err := Parse("INSERT INTO users VALUES (1, 'Ada', '30')")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Kind != StatementInsert || stmt.TableName != "users" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
	if len(stmt.Values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(stmt.Values))
	}
	if stmt.Values[0].IsString || stmt.Values[0].Int != 1 {
		t.Fatalf("expected first value to be integer 1, got %+v", stmt.Values[0])
	}
	if !stmt.Values[1].IsString || stmt.Values[1].Str != "Ada" {
		t.Fatalf("expected second value to be string Ada, got %+v", stmt.Values[1])
	}
	if !stmt.Values[2].IsString || stmt.Values[2].Str != "30" {
		t.Fatalf("expected third value to be the quoted string 30, got %+v", stmt.Values[2])
	}
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Kind != StatementSelect || !stmt.SelectAll || stmt.TableName != "users" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
}

func TestParseSelectColumns(t *testing.T) {
	stmt, err := Parse("SELECT id, name FROM users")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.SelectAll {
		t.Fatalf("expected SelectAll false")
	}
	if len(stmt.SelectColumns) != 2 || stmt.SelectColumns[0] != "id" || stmt.SelectColumns[1] != "name" {
		t.Fatalf("unexpected select columns: %v", stmt.SelectColumns)
	}
}

func TestParseUpdate(t *testing.T) {
	stmt, err := Parse("UPDATE users SET age = 31 WHERE id = 1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Kind != StatementUpdate || stmt.TableName != "users" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
	if stmt.Set.Column != "age" || stmt.Set.Value.Int != 31 {
		t.Fatalf("unexpected set clause: %+v", stmt.Set)
	}
	if stmt.Where.Column != "id" || stmt.Where.Value.Int != 1 {
		t.Fatalf("unexpected where clause: %+v", stmt.Where)
	}
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("DELETE FROM users WHERE name = 'Ada'")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Kind != StatementDelete || stmt.TableName != "users" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
	if stmt.Where.Column != "name" || !stmt.Where.Value.IsString || stmt.Where.Value.Str != "Ada" {
		t.Fatalf("unexpected where clause: %+v", stmt.Where)
	}
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	if _, err := Parse("select * from Users"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Parse("Select * From Users"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	cases := []string{
		"CREATE users (id)",
		"INSERT INTO users VALUES (1 2)",
		"SELECT FROM users",
		"UPDATE users SET age WHERE id = 1",
		"DELETE users WHERE id = 1",
		"SELECT * FROM users EXTRA",
		"INSERT INTO users VALUES ('unterminated",
		"SELECT * FROM users #",
	}
	for _, q := range cases {
		_, err := Parse(q)
		if err == nil {
			t.Fatalf("expected syntax error for query %q", q)
		}
		if !dberrors.Is(err, dberrors.Syntax) {
			t.Fatalf("expected Syntax kind for query %q, got %v", q, err)
		}
		if !strings.HasPrefix(err.Error(), "Syntax error") {
			t.Fatalf("expected message to begin with %q for query %q, got %q", "Syntax error", q, err.Error())
		}
	}
}

func TestTokenizeSkipsWhitespaceAndNewlines(t *testing.T) {
	stmt, err := Parse("SELECT  *\nFROM\tusers")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.TableName != "users" {
		t.Fatalf("unexpected table name: %s", stmt.TableName)
	}
}
