package testutil

import (
	"sync"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/session"
)

// Recorder collects every snapshot delivered to it.
// Subscribe its Listen method to a session.Controller.
type Recorder struct {
	mu    sync.Mutex
	snaps []session.Snapshot
}

// Listen implements session.Listener.
func (r *Recorder) Listen(s session.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

// Snapshots returns the recorded snapshots in delivery order.
func (r *Recorder) Snapshots() []session.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Snapshot{}, r.snaps...)
}

// BusyTrail returns the busy flag of each recorded snapshot.
func (r *Recorder) BusyTrail() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bool, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.Busy
	}
	return out
}
