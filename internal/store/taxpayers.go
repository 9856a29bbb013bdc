package store

import (
	"context"
	"fmt"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// FetchAll returns every taxpayer record in TID order.
// An error means the read could not complete; there are no partial results.
func (s *Store) FetchAll(ctx context.Context) ([]taxpayer.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tid, first_name, last_name, address
		FROM taxpayers
		ORDER BY tid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch taxpayers: %w", err)
	}
	defer rows.Close()

	records := []taxpayer.Record{}
	for rows.Next() {
		var r taxpayer.Record
		if err := rows.Scan(&r.TID, &r.FirstName, &r.LastName, &r.Address); err != nil {
			return nil, fmt.Errorf("fetch taxpayers: scan: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch taxpayers: %w", err)
	}

	return records, nil
}

// AddOne creates a taxpayer record and returns the assigned TID.
//
// Fields are normalized before storage. Blank fields and CHECK constraint
// failures produce an err outcome with a description such as
// "address required"; nothing is inserted in that case. A non-nil error
// is reserved for faults where the insert could not be attempted or
// completed.
func (s *Store) AddOne(ctx context.Context, f taxpayer.Fields) (taxpayer.Outcome, error) {
	f = taxpayer.Normalize(f)
	if violations := taxpayer.Validate(f); len(violations) > 0 {
		return taxpayer.Err(taxpayer.Describe(violations)), nil
	}

	tid, err := s.dialect.insert(ctx, s.db, f)
	if err != nil {
		if s.dialect.isCheckViolation(err) {
			return taxpayer.Err(fmt.Sprintf("rejected by store: %v", err)), nil
		}
		return taxpayer.Outcome{}, fmt.Errorf("add taxpayer: %w", err)
	}

	return taxpayer.Ok(tid), nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM taxpayers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count taxpayers: %w", err)
	}
	return n, nil
}
