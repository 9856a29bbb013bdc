package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// ErrTransport is the default fault injected by Store.FailFetch/FailAdd.
var ErrTransport = errors.New("transport fault: connection refused")

// Store is an in-memory, scriptable record store for controller tests.
//
// By default it behaves like a real store: AddOne assigns increasing TIDs
// starting at 1 and FetchAll returns every record in TID order. Tests can
// inject faults and rejections, pin the next TID, or hold FetchAll calls
// open to control resolution order.
//
// Thread-safety: All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	records  []taxpayer.Record
	nextTID  taxpayer.TID
	fetchErr error
	addErr   error
	reject   string
	holding  bool
	pending  chan *HeldFetch

	holdingAdds bool
	pendingAdds chan *HeldAdd

	fetchCalls int
	addCalls   []taxpayer.Fields
}

// NewStore creates a store seeded with records.
// The next TID follows the highest seeded TID.
func NewStore(seed ...taxpayer.Record) *Store {
	s := &Store{
		nextTID:     1,
		pending:     make(chan *HeldFetch, 16),
		pendingAdds: make(chan *HeldAdd, 16),
	}
	for _, r := range seed {
		s.records = append(s.records, r)
		if r.TID >= s.nextTID {
			s.nextTID = r.TID + 1
		}
	}
	return s
}

// HeldFetch is a FetchAll call parked by HoldFetches.
type HeldFetch struct {
	done chan heldResult
}

type heldResult struct {
	records []taxpayer.Record
	err     error
}

// Release resolves the held call with records.
func (h *HeldFetch) Release(records []taxpayer.Record) {
	h.done <- heldResult{records: records}
}

// Fail resolves the held call with err.
func (h *HeldFetch) Fail(err error) {
	h.done <- heldResult{err: err}
}

// HoldFetches makes every later FetchAll block until the test resolves it.
// Parked calls are delivered on Pending in arrival order.
func (s *Store) HoldFetches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holding = true
}

// Pending delivers FetchAll calls parked by HoldFetches.
func (s *Store) Pending() <-chan *HeldFetch {
	return s.pending
}

// HeldAdd is an AddOne call parked by HoldAdds.
type HeldAdd struct {
	Fields taxpayer.Fields
	done   chan error
}

// Release lets the held call proceed as an unheld AddOne would.
func (h *HeldAdd) Release() {
	h.done <- nil
}

// Fail resolves the held call with err as a transport fault.
func (h *HeldAdd) Fail(err error) {
	if err == nil {
		err = ErrTransport
	}
	h.done <- err
}

// HoldAdds makes every later AddOne block until the test resolves it.
// Parked calls are delivered on PendingAdds in arrival order.
func (s *Store) HoldAdds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdingAdds = true
}

// PendingAdds delivers AddOne calls parked by HoldAdds.
func (s *Store) PendingAdds() <-chan *HeldAdd {
	return s.pendingAdds
}

// FailFetch makes FetchAll return err (ErrTransport if nil) until Heal.
func (s *Store) FailFetch(err error) {
	if err == nil {
		err = ErrTransport
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// FailAdd makes AddOne return err (ErrTransport if nil) until Heal.
func (s *Store) FailAdd(err error) {
	if err == nil {
		err = ErrTransport
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addErr = err
}

// Reject makes AddOne return an err outcome with reason.
func (s *Store) Reject(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = reason
}

// Heal clears injected faults and rejections.
func (s *Store) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = nil
	s.addErr = nil
	s.reject = ""
}

// SetNextTID pins the TID assigned by the next successful AddOne.
func (s *Store) SetNextTID(tid taxpayer.TID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTID = tid
}

// Records returns a copy of the stored records.
func (s *Store) Records() []taxpayer.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]taxpayer.Record{}, s.records...)
}

// FetchCalls returns how many times FetchAll was called.
func (s *Store) FetchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls
}

// AddCalls returns the fields passed to AddOne, in call order.
func (s *Store) AddCalls() []taxpayer.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]taxpayer.Fields{}, s.addCalls...)
}

// FetchAll implements session.RecordStore.
func (s *Store) FetchAll(ctx context.Context) ([]taxpayer.Record, error) {
	s.mu.Lock()
	s.fetchCalls++
	if s.holding {
		s.mu.Unlock()
		held := &HeldFetch{done: make(chan heldResult, 1)}
		s.pending <- held
		select {
		case res := <-held.done:
			return res.records, res.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	defer s.mu.Unlock()

	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return append([]taxpayer.Record{}, s.records...), nil
}

// AddOne implements session.RecordStore.
func (s *Store) AddOne(ctx context.Context, f taxpayer.Fields) (taxpayer.Outcome, error) {
	s.mu.Lock()
	s.addCalls = append(s.addCalls, f)
	if s.holdingAdds {
		s.mu.Unlock()
		held := &HeldAdd{Fields: f, done: make(chan error, 1)}
		s.pendingAdds <- held
		select {
		case err := <-held.done:
			if err != nil {
				return taxpayer.Outcome{}, err
			}
		case <-ctx.Done():
			return taxpayer.Outcome{}, ctx.Err()
		}
		s.mu.Lock()
	}
	defer s.mu.Unlock()

	if s.addErr != nil {
		return taxpayer.Outcome{}, s.addErr
	}
	if s.reject != "" {
		return taxpayer.Err(s.reject), nil
	}

	tid := s.nextTID
	s.nextTID++
	s.records = append(s.records, taxpayer.Record{
		TID:       tid,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Address:   f.Address,
	})
	return taxpayer.Ok(tid), nil
}
