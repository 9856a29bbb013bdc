// Package taxpayer defines the taxpayer record types shared by the store,
// the session controller and the presentation layer.
//
// This package imports nothing internal. A Record is created only by a
// record store in response to an add request; every other package treats
// records as immutable values.
//
// Key constraints:
//   - TIDs are assigned by the store, monotonically, and never reused
//   - FirstName, LastName and Address are non-empty after Normalize
//   - Outcome carries exactly one of a TID or a rejection description
package taxpayer
