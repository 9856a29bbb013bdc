package store

import (
	"path/filepath"
	"testing"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// createTestStore creates a new SQLite store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fields builds taxpayer fields in form order.
func fields(first, last, address string) taxpayer.Fields {
	return taxpayer.Fields{FirstName: first, LastName: last, Address: address}
}
