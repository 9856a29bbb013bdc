package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// RecordStore is the backend holding the canonical record set.
//
// FetchAll returns the full set or fails as a whole. AddOne returns an
// outcome that is either ok (new TID) or err (rejection); a non-nil error
// from either method is a transport fault.
type RecordStore interface {
	FetchAll(ctx context.Context) ([]taxpayer.Record, error)
	AddOne(ctx context.Context, f taxpayer.Fields) (taxpayer.Outcome, error)
}

// Form is the presentation-side holder of the values being submitted.
// The controller resets it after a successful add and leaves it alone
// otherwise, so a rejected submission can be retried as-is.
type Form interface {
	Reset()
}

// Listener receives a snapshot after every state change.
type Listener func(Snapshot)

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	Records []taxpayer.Record `json:"records"`
	Busy    bool              `json:"busy"`
	// Version increases with every mutation.
	Version int64 `json:"version"`
}

// Status classifies how a submission settled.
type Status int

const (
	// StatusAdded means the store accepted the record.
	StatusAdded Status = iota + 1
	// StatusRejected means the store declined the record.
	StatusRejected
	// StatusFault means the store could not be reached or failed.
	StatusFault
)

func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusRejected:
		return "rejected"
	case StatusFault:
		return "fault"
	}
	return "unknown"
}

// Receipt reports the settled result of SubmitNew.
// TID is set only for StatusAdded, Reason only for StatusRejected and
// Err only for StatusFault.
type Receipt struct {
	OpID   string
	Status Status
	TID    taxpayer.TID
	Reason string
	Err    error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for operation logs.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithForm registers the form to reset after a successful add.
func WithForm(f Form) Option {
	return func(c *Controller) {
		c.form = f
	}
}

// WithOpIDGenerator overrides the operation ID generator (for testing).
// Default: UUIDv7Generator.
func WithOpIDGenerator(g OpIDGenerator) Option {
	return func(c *Controller) {
		c.ids = g
	}
}

type subscription struct {
	id int
	fn Listener
}

// Controller coordinates fetch and add operations against a RecordStore
// and publishes the resulting state to listeners.
type Controller struct {
	store  RecordStore
	form   Form
	logger *slog.Logger
	ids    OpIDGenerator
	clock  *Clock

	mu        sync.Mutex
	records   []taxpayer.Record
	inFlight  int
	listeners []subscription
	nextSubID int

	// Delivery is ordered by version: a mutation notifies only after the
	// previous version's listeners have returned.
	deliverMu   sync.Mutex
	deliverCond *sync.Cond
	delivered   int64
}

// New creates a Controller over store with an empty record list.
// Call Refresh to load the initial set.
func New(store RecordStore, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		logger:  slog.Default(),
		ids:     UUIDv7Generator{},
		clock:   NewClock(),
		records: []taxpayer.Record{},
	}
	c.deliverCond = sync.NewCond(&c.deliverMu)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers l for state change notifications. The returned
// function removes the registration; calling it more than once is a no-op.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.listeners = append(c.listeners, subscription{id: id, fn: l})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.listeners {
				if s.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Refresh replaces the record list with the store's full set.
//
// On a transport fault the failure is logged and the list is left as it
// was. Refresh reports whether the list was replaced. It never retries.
func (c *Controller) Refresh(ctx context.Context) bool {
	log := c.logger.With("op", c.ids.Generate(), "action", "refresh")

	c.begin()
	records, ok := c.fetch(ctx, log)
	c.settle(records, ok)
	return ok
}

// SubmitNew asks the store to add a record built from f.
//
// On success the form is reset and the list is refetched from the store
// before the busy span ends. On rejection or fault the failure is logged,
// and neither the list nor the form changes.
//
// Callers are expected to have checked that all three fields are present;
// the controller itself forwards whatever it is given.
func (c *Controller) SubmitNew(ctx context.Context, f taxpayer.Fields) Receipt {
	opID := c.ids.Generate()
	log := c.logger.With("op", opID, "action", "submit")

	c.begin()

	outcome, err := c.store.AddOne(ctx, f)
	if err != nil {
		log.Error("error adding taxpayer", "error", err)
		c.settle(nil, false)
		return Receipt{OpID: opID, Status: StatusFault, Err: err}
	}
	if !outcome.IsOk() {
		log.Error("error adding taxpayer", "reason", outcome.Reason())
		c.settle(nil, false)
		return Receipt{OpID: opID, Status: StatusRejected, Reason: outcome.Reason()}
	}

	log.Info("new taxpayer added", "tid", outcome.TID())
	if c.form != nil {
		c.form.Reset()
	}

	// Busy stays high across the follow-up fetch.
	records, ok := c.fetch(ctx, log)
	c.settle(records, ok)

	return Receipt{OpID: opID, Status: StatusAdded, TID: outcome.TID()}
}

func (c *Controller) fetch(ctx context.Context, log *slog.Logger) ([]taxpayer.Record, bool) {
	log.Debug("fetching taxpayers")
	records, err := c.store.FetchAll(ctx)
	if err != nil {
		log.Error("error fetching taxpayers", "error", err)
		return nil, false
	}
	log.Debug("taxpayers fetched", "count", len(records))
	return records, true
}

// begin marks one more operation in flight.
func (c *Controller) begin() {
	c.mutate(func() {
		c.inFlight++
	})
}

// settle ends one in-flight operation, replacing the list if requested.
// Both changes land in a single notification.
func (c *Controller) settle(records []taxpayer.Record, replace bool) {
	c.mutate(func() {
		if replace {
			c.records = make([]taxpayer.Record, len(records))
			copy(c.records, records)
		}
		c.inFlight--
	})
}

// mutate applies fn under the state lock, stamps a new version and
// notifies listeners once every earlier version has been delivered.
func (c *Controller) mutate(fn func()) {
	c.mu.Lock()
	fn()
	// Next only runs under mu, so Current is the latest stamp.
	c.clock.Next()
	snap := c.snapshotLocked()
	listeners := make([]Listener, len(c.listeners))
	for i, s := range c.listeners {
		listeners[i] = s.fn
	}
	c.mu.Unlock()

	c.deliverMu.Lock()
	for c.delivered != snap.Version-1 {
		c.deliverCond.Wait()
	}
	c.deliverMu.Unlock()

	defer func() {
		c.deliverMu.Lock()
		c.delivered = snap.Version
		c.deliverCond.Broadcast()
		c.deliverMu.Unlock()
	}()

	for _, l := range listeners {
		l(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	records := make([]taxpayer.Record, len(c.records))
	copy(records, c.records)
	return Snapshot{
		Records: records,
		Busy:    c.inFlight > 0,
		Version: c.clock.Current(),
	}
}
