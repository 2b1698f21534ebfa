package catalog

import (
	"testing"

	"github.com/briarql/briarql/internal/dberrors"
)

func TestCreateTableAndReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.CreateTable("users", []string{"id", "name"}); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if err := c.CreateTable("users", []string{"id"}); !dberrors.Is(err, dberrors.AlreadyExists) {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}

	reopened, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	info, err := reopened.Describe("users")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if len(info.Columns) != 2 || info.Columns[0] != "id" || info.Columns[1] != "name" {
		t.Fatalf("unexpected columns after reopen: %v", info.Columns)
	}
	if info.NodeCount == 0 {
		t.Fatalf("expected a non-zero node count for an opened table")
	}
}

func TestDropTableRemovesDirectory(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.CreateTable("users", []string{"id"}); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if err := c.DropTable("users"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}
	if _, err := c.Describe("users"); !dberrors.Is(err, dberrors.UnknownTable) {
		t.Fatalf("expected UnknownTable after drop, got %v", err)
	}
	if err := c.DropTable("users"); !dberrors.Is(err, dberrors.UnknownTable) {
		t.Fatalf("expected UnknownTable dropping twice, got %v", err)
	}
}

func TestListTablesSorted(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, name := range []string{"zebras", "apples", "mangoes"} {
		if err := c.CreateTable(name, []string{"id"}); err != nil {
			t.Fatalf("CreateTable(%s): %v", name, err)
		}
	}
	names := c.ListTables()
	want := []string{"apples", "mangoes", "zebras"}
	if len(names) != len(want) {
		t.Fatalf("expected %d tables, got %d", len(want), len(names))
	}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("table %d: expected %s, got %s", i, n, names[i])
		}
	}
}
