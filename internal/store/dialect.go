package store

import (
	"context"
	"database/sql"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// dialect captures the per-database differences. Queries that are valid
// on every backend (FetchAll, Count) live in taxpayers.go.
type dialect struct {
	driver string

	// maxConns caps the pool; zero leaves database/sql defaults.
	maxConns int

	// prepare applies session settings and creates or migrates the schema.
	prepare func(ctx context.Context, db *sql.DB) error

	// insert adds a normalized, validated record and returns its TID.
	insert func(ctx context.Context, db *sql.DB, f taxpayer.Fields) (taxpayer.TID, error)

	// isCheckViolation reports whether err is a CHECK constraint failure,
	// which AddOne turns into a rejection instead of a fault.
	isCheckViolation func(err error) bool
}
