package catalog

import (
	"testing"

	"github.com/briarql/briarql/internal/dberrors"
)

func mustExecute(t *testing.T, e *Executor, query string) interface{} {
	t.Helper()
	result, err := e.Execute(query)
	if err != nil {
		t.Fatalf("Execute(%q): %v", query, err)
	}
	return result
}

// S5 — SQL round trip through CREATE/INSERT/SELECT, with a reopen in
// between to confirm persistence.
func TestS5SQLRoundTripWithReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e := NewExecutor(c)

	mustExecute(t, e, "CREATE TABLE users (id, name, age)")
	mustExecute(t, e, "INSERT INTO users VALUES (1, 'Ada', 30)")
	mustExecute(t, e, "INSERT INTO users VALUES (2, 'Linus', 40)")

	reopenedCatalog, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened := NewExecutor(reopenedCatalog)

	result := mustExecute(t, reopened, "SELECT * FROM users")
	rows, ok := result.([]map[string]interface{})
	if !ok {
		t.Fatalf("expected []map[string]interface{}, got %T", result)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after reopen, got %d", len(rows))
	}
	if rows[0]["name"] != "Ada" || rows[1]["name"] != "Linus" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

// S6 — value coercion: a quoted decimal string becomes a float, a quoted
// all-digit string or a non-numeric string stays a string, and '1' never
// equals 1 in a WHERE comparison.
func TestS6ValueCoercion(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e := NewExecutor(c)

	mustExecute(t, e, "CREATE TABLE items (id, label, weight)")
	mustExecute(t, e, "INSERT INTO items VALUES (1, 'widget', '3.5')")
	mustExecute(t, e, "INSERT INTO items VALUES ('1', 'imposter', '9')")

	result := mustExecute(t, e, "SELECT * FROM items")
	rows := result.([]map[string]interface{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 distinct rows (int key 1 and string key '1'), got %d", len(rows))
	}

	var widget map[string]interface{}
	for _, r := range rows {
		if r["label"] == "widget" {
			widget = r
		}
	}
	if widget == nil {
		t.Fatalf("widget row not found: %+v", rows)
	}
	if _, ok := widget["weight"].(float64); !ok {
		t.Fatalf("expected weight to coerce to float64, got %T (%v)", widget["weight"], widget["weight"])
	}

	updateResult := mustExecute(t, e, "UPDATE items SET label = 'renamed' WHERE id = 1")
	if updateResult != "1 rows updated in items." {
		t.Fatalf("unexpected update status: %v", updateResult)
	}
}

func TestInsertArityMismatch(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e := NewExecutor(c)
	mustExecute(t, e, "CREATE TABLE items (id, label)")
	if _, err := e.Execute("INSERT INTO items VALUES (1, 'a', 'b')"); !dberrors.Is(err, dberrors.Arity) {
		t.Fatalf("expected Arity error, got %v", err)
	}
}

func TestUnknownTableErrors(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e := NewExecutor(c)
	if _, err := e.Execute("SELECT * FROM ghosts"); !dberrors.Is(err, dberrors.UnknownTable) {
		t.Fatalf("expected UnknownTable, got %v", err)
	}
	if _, err := e.Execute("INSERT INTO ghosts VALUES (1)"); !dberrors.Is(err, dberrors.UnknownTable) {
		t.Fatalf("expected UnknownTable, got %v", err)
	}
}

func TestDeleteRemovesMatchingRows(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e := NewExecutor(c)
	mustExecute(t, e, "CREATE TABLE items (id, owner)")
	mustExecute(t, e, "INSERT INTO items VALUES (1, 'ann')")
	mustExecute(t, e, "INSERT INTO items VALUES (2, 'ann')")
	mustExecute(t, e, "INSERT INTO items VALUES (3, 'bo')")

	status := mustExecute(t, e, "DELETE FROM items WHERE owner = 'ann'")
	if status != "2 rows deleted from items." {
		t.Fatalf("unexpected status: %v", status)
	}
	result := mustExecute(t, e, "SELECT * FROM items")
	rows := result.([]map[string]interface{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 remaining row, got %d", len(rows))
	}
}

func TestDropTableViaExecutor(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e := NewExecutor(c)
	mustExecute(t, e, "CREATE TABLE items (id)")
	status, err := e.DropTable("items")
	if err != nil {
		t.Fatalf("DropTable: %v", err)
	}
	if status != "Table items dropped." {
		t.Fatalf("unexpected status: %v", status)
	}
	if _, err := e.Execute("SELECT * FROM items"); !dberrors.Is(err, dberrors.UnknownTable) {
		t.Fatalf("expected UnknownTable after drop, got %v", err)
	}
}
