// Package session implements the record session controller: the state
// shared between the add-record workflow and the record listing.
//
// A Controller owns two pieces of state, the current record list and the
// busy flag, and exposes them as immutable Snapshots. Presentation code
// observes changes by subscribing a Listener; there is no implicit
// re-render.
//
// Update policy is pessimistic. A successful add never inserts locally;
// the controller refetches the full set from the RecordStore and replaces
// its list wholesale.
//
// Fault handling: neither a store rejection nor a transport fault escapes
// the controller. Both are logged and leave the record list untouched.
//
// Concurrency model:
//   - Refresh and SubmitNew are safe from any goroutine
//   - Concurrent refreshes are not serialized; the fetch that resolves
//     last determines the list (resolution order, not call order)
//   - Busy is an in-flight count, so it stays high until every
//     outstanding operation settles
//   - Listeners run synchronously, in mutation order, and may call
//     Snapshot but must not call Refresh or SubmitNew
package session
