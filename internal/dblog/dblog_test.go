package dblog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "briarql.log")
	logger := New(path, 1)
	logger.Println("hello from the test suite")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello from the test suite") {
		t.Fatalf("expected log file to contain the message, got %q", string(data))
	}
}

func TestNewWithEmptyPathLogsToStderrOnly(t *testing.T) {
	logger := New("", 1)
	if logger == nil {
		t.Fatalf("expected a non-nil logger")
	}
}
