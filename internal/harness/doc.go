// Package harness runs YAML scenarios against a record session.
//
// A scenario seeds a record store, drives a session.Controller through a
// flow of refresh and submit steps, and checks the receipts, the busy
// trail seen by listeners and the final record list. The store is either
// an in-memory SQLite database or the scriptable fake from testutil, which
// can inject transport faults and rejections per step.
//
// Every step is executed for real; expect clauses are compared against
// what the controller actually returned. RunWithGolden additionally pins
// the full trace to a golden file under testdata/golden.
package harness
