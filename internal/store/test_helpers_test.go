package store

import (
	"path/filepath"
	"testing"

	"github.com/abreit/rethinkdb/internal/r"
	"github.com/abreit/rethinkdb/internal/term"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// addTerm builds ADD(a, b).
func addTerm(a, b float64) *term.Term {
	return r.Expr(a).Add(b).Build()
}
