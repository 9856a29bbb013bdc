package testutil

import (
	"fmt"
	"sync"
)

// SequentialOpIDs generates "op-1", "op-2", ... for deterministic logs
// and receipts.
//
// Implements session.OpIDGenerator.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialOpIDs struct {
	mu sync.Mutex
	n  int
}

// Generate returns the next operation ID.
func (g *SequentialOpIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("op-%d", g.n)
}
