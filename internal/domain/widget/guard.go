package widget

import (
	"sync"

	"github.com/intavia/visualquery/internal/domain/constraint"
)

// Ticket identifies one aggregate request of a widget.
type Ticket struct {
	ID  constraint.ID
	Key string
	seq uint64
}

// Guard orders aggregate requests per widget. A response is accepted while its
// parameters are those of the widget's latest request; responses for
// superseded parameters resolve stale and are dropped. Overlapping requests
// with identical parameters are all accepted.
type Guard struct {
	mu     sync.Mutex
	seq    uint64
	latest map[constraint.ID]pending
}

type pending struct {
	key string
	seq uint64
}

// NewGuard creates a guard.
func NewGuard() *Guard {
	return &Guard{latest: make(map[constraint.ID]pending)}
}

// Begin registers a request for id keyed by its parameters and supersedes any
// request in flight for the same widget.
func (g *Guard) Begin(id constraint.ID, key string) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.latest[id] = pending{key: key, seq: g.seq}
	return Ticket{ID: id, Key: key, seq: g.seq}
}

// Accept reports whether t's parameters are still the latest of its widget.
func (g *Guard) Accept(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.latest[t.ID]
	if !ok || t.seq > p.seq {
		return false
	}
	return p.seq == t.seq || p.key == t.Key
}

// Forget drops the widget's requests; pending responses become stale.
func (g *Guard) Forget(id constraint.ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.latest, id)
}
