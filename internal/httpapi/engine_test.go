package httpapi

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/briarql/briarql/internal/catalog"
	"github.com/briarql/briarql/internal/dblog"
)

// TestS5SQLRoundTripWithReopenThroughHTTP reproduces spec.md §8's S5
// scenario (CREATE/INSERT/SELECT with a reopen of the underlying store
// in between) driven entirely through the /execute endpoint, rather
// than calling the catalog Executor directly the way internal/catalog's
// TestS5SQLRoundTripWithReopen does.
func TestS5SQLRoundTripWithReopenThroughHTTP(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "briarql.lock")
	logger := dblog.New("", 1)

	c, err := catalog.Open(dir, 3)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	srv, err := New(catalog.NewExecutor(c), logger, lockPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())

	status, body := postCommand(t, ts, "CREATE TABLE users (id, name, age)")
	if status != http.StatusOK || body["result"] != "Table users created." {
		t.Fatalf("CREATE TABLE: %d %v", status, body)
	}
	status, body = postCommand(t, ts, "INSERT INTO users VALUES (1, 'Ada', 30)")
	if status != http.StatusOK || body["result"] != "1 row inserted into users." {
		t.Fatalf("INSERT (1): %d %v", status, body)
	}
	status, body = postCommand(t, ts, "INSERT INTO users VALUES (2, 'Linus', 40)")
	if status != http.StatusOK || body["result"] != "1 row inserted into users." {
		t.Fatalf("INSERT (2): %d %v", status, body)
	}

	ts.Close()
	if err := srv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen the catalog and server against the same data directory,
	// the same reopen step internal/catalog's S5 test performs, here
	// proven to survive a second Server/httptest.Server pair.
	reopenedCatalog, err := catalog.Open(dir, 3)
	if err != nil {
		t.Fatalf("reopen catalog.Open: %v", err)
	}
	reopenedSrv, err := New(catalog.NewExecutor(reopenedCatalog), logger, lockPath)
	if err != nil {
		t.Fatalf("reopen New: %v", err)
	}
	defer reopenedSrv.Close()
	ts2 := httptest.NewServer(reopenedSrv.Handler())
	defer ts2.Close()

	status, body = postCommand(t, ts2, "SELECT * FROM users")
	if status != http.StatusOK {
		t.Fatalf("SELECT after reopen: %d %v", status, body)
	}
	rows, ok := body["result"].([]interface{})
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 rows after reopen, got %v", body["result"])
	}
}

// TestS6ValueCoercionThroughHTTP reproduces spec.md §8's S6 scenario
// (quoted-numeric coercion and '1' != 1 in a WHERE clause) driven
// through the HTTP layer.
func TestS6ValueCoercionThroughHTTP(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := postCommand(t, ts, "CREATE TABLE items (id, label, weight)")
	if status != http.StatusOK || body["result"] != "Table items created." {
		t.Fatalf("CREATE TABLE: %d %v", status, body)
	}
	status, body = postCommand(t, ts, "INSERT INTO items VALUES (1, 'widget', '3.5')")
	if status != http.StatusOK {
		t.Fatalf("INSERT widget: %d %v", status, body)
	}
	status, body = postCommand(t, ts, "INSERT INTO items VALUES ('1', 'imposter', '9')")
	if status != http.StatusOK {
		t.Fatalf("INSERT imposter: %d %v", status, body)
	}

	status, body = postCommand(t, ts, "SELECT * FROM items")
	if status != http.StatusOK {
		t.Fatalf("SELECT: %d %v", status, body)
	}
	rows, ok := body["result"].([]interface{})
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 distinct rows (int key 1 and string key '1'), got %v", body["result"])
	}

	var widget map[string]interface{}
	for _, r := range rows {
		row := r.(map[string]interface{})
		if row["label"] == "widget" {
			widget = row
		}
	}
	if widget == nil {
		t.Fatalf("widget row not found: %v", rows)
	}
	if _, ok := widget["weight"].(float64); !ok {
		t.Fatalf("expected weight to coerce to float64, got %T (%v)", widget["weight"], widget["weight"])
	}

	status, body = postCommand(t, ts, "UPDATE items SET label = 'renamed' WHERE id = 1")
	if status != http.StatusOK || body["result"] != "1 rows updated in items." {
		t.Fatalf("UPDATE: %d %v", status, body)
	}
}
