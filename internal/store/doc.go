// Package store provides the durable Record Store for taxpayer records.
//
// The store is the source of truth for the record set:
//   - TIDs are assigned by the database and never reused
//     (SQLite AUTOINCREMENT, Oracle identity column)
//   - Blank fields are rejected twice: by taxpayer.Validate before the
//     insert, and by CHECK constraints in the schema
//   - FetchAll returns records in TID order
//
// # Outcomes vs errors
//
// AddOne distinguishes a rejection (taxpayer.Outcome in its err variant)
// from a transport fault (a non-nil error). Rejections are expected and
// carry a human-readable description; faults mean the call could not
// complete at all.
//
// # Database configuration
//
// SQLite (default driver):
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single open connection; SQLite has one writer
//
// Oracle: connects over TCPS, optionally with a wallet, and creates the
// taxpayers table on first use.
package store
