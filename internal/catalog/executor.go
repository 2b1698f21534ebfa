package catalog

import (
	"fmt"

	"github.com/briarql/briarql/internal/dberrors"
	"github.com/briarql/briarql/internal/store"
	"github.com/briarql/briarql/internal/sql"
)

// Executor parses and dispatches one SQL statement at a time against a
// Catalog, mirroring original_source/src/dbms.py's Database.execute
// isinstance chain as a switch over sql.StatementKind (spec.md §9,
// "Polymorphic statement value").
//
// Execute is not safe for concurrent use by multiple goroutines; callers
// that expose it over a network interface must serialize calls
// themselves (spec.md §5, §9 "Open question: concurrent HTTP callers";
// internal/httpapi does this with a mutex).
type Executor struct {
	catalog *Catalog
}

func NewExecutor(c *Catalog) *Executor {
	return &Executor{catalog: c}
}

// Execute parses query and runs it, returning a human-readable status
// string for CREATE/INSERT/UPDATE/DELETE, or a slice of row maps for
// SELECT. DROP TABLE is not a statement; see DropTable.
func (e *Executor) Execute(query string) (interface{}, error) {
	stmt, err := sql.Parse(query)
	if err != nil {
		return nil, err
	}
	switch stmt.Kind {
	case sql.StatementCreate:
		return e.execCreate(stmt)
	case sql.StatementInsert:
		return e.execInsert(stmt)
	case sql.StatementSelect:
		return e.execSelect(stmt)
	case sql.StatementUpdate:
		return e.execUpdate(stmt)
	case sql.StatementDelete:
		return e.execDelete(stmt)
	default:
		return nil, dberrors.New(dberrors.Unsupported, "unsupported statement")
	}
}

func (e *Executor) execCreate(stmt *sql.Statement) (interface{}, error) {
	if err := e.catalog.CreateTable(stmt.TableName, stmt.Columns); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Table %s created.", stmt.TableName), nil
}

func (e *Executor) execInsert(stmt *sql.Statement) (interface{}, error) {
	tree, desc, err := e.catalog.tree(stmt.TableName)
	if err != nil {
		return nil, err
	}
	if len(stmt.Values) != len(desc.Columns) {
		return nil, dberrors.New(dberrors.Arity, "table %s has %d columns, got %d values", stmt.TableName, len(desc.Columns), len(stmt.Values))
	}
	row := make(store.Row, len(desc.Columns))
	for i, col := range desc.Columns {
		row[col] = coerceValue(stmt.Values[i])
	}
	key := row[desc.Columns[0]].KeyOf()
	if err := tree.Insert(key, row); err != nil {
		return nil, err
	}
	return fmt.Sprintf("1 row inserted into %s.", stmt.TableName), nil
}

func (e *Executor) execSelect(stmt *sql.Statement) (interface{}, error) {
	tree, desc, err := e.catalog.tree(stmt.TableName)
	if err != nil {
		return nil, err
	}
	entries, err := tree.Traverse()
	if err != nil {
		return nil, err
	}
	columns := stmt.SelectColumns
	if stmt.SelectAll {
		columns = desc.Columns
	}
	rows := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		projected := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			projected[col] = entry.Row[col].Raw()
		}
		rows = append(rows, projected)
	}
	return rows, nil
}

func (e *Executor) execUpdate(stmt *sql.Statement) (interface{}, error) {
	tree, _, err := e.catalog.tree(stmt.TableName)
	if err != nil {
		return nil, err
	}
	whereValue := coerceValue(stmt.Where.Value)
	setValue := coerceValue(stmt.Set.Value)
	entries, err := tree.Traverse()
	if err != nil {
		return nil, err
	}
	updated := 0
	for _, entry := range entries {
		if !entry.Row[stmt.Where.Column].Equal(whereValue) {
			continue
		}
		row := entry.Row.Clone()
		row[stmt.Set.Column] = setValue
		if err := tree.Insert(entry.Key, row); err != nil {
			return nil, err
		}
		updated++
	}
	return fmt.Sprintf("%d rows updated in %s.", updated, stmt.TableName), nil
}

func (e *Executor) execDelete(stmt *sql.Statement) (interface{}, error) {
	tree, _, err := e.catalog.tree(stmt.TableName)
	if err != nil {
		return nil, err
	}
	whereValue := coerceValue(stmt.Where.Value)
	entries, err := tree.Traverse()
	if err != nil {
		return nil, err
	}
	var toDelete []store.Key
	for _, entry := range entries {
		if entry.Row[stmt.Where.Column].Equal(whereValue) {
			toDelete = append(toDelete, entry.Key)
		}
	}
	for _, key := range toDelete {
		if err := tree.Delete(key); err != nil {
			return nil, err
		}
	}
	return fmt.Sprintf("%d rows deleted from %s.", len(toDelete), stmt.TableName), nil
}

// DropTable executes DROP TABLE name, supplemented per spec.md §4.3's
// expansion (not part of the grammar's statement productions, invoked
// directly rather than through Execute's SQL dispatch).
func (e *Executor) DropTable(name string) (interface{}, error) {
	if err := e.catalog.DropTable(name); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Table %s dropped.", name), nil
}

// ListTables and Describe surface the same catalog introspection a SQL dialect
// exposes via LIST USERS/LIST BACKUPS status strings (internal/parser/
// engine.go), here as direct Executor methods rather than SQL statements
// since spec.md's grammar has no production for them.
func (e *Executor) ListTables() []string {
	return e.catalog.ListTables()
}

func (e *Executor) Describe(name string) (TableInfo, error) {
	return e.catalog.Describe(name)
}
