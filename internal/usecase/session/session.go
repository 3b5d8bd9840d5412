package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intavia/visualquery/internal/domain/query"
	"github.com/intavia/visualquery/internal/domain/widget"
)

// session is one visual query container. mu serialises its transitions.
type session struct {
	id      uuid.UUID
	mu      sync.Mutex
	state   query.State
	guard   *widget.Guard
	created time.Time
	touched time.Time
}

// Snapshot is a settled copy of a session's store.
type Snapshot struct {
	ID        uuid.UUID
	State     query.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *session) snapshot() Snapshot {
	return Snapshot{ID: s.id, State: s.state, CreatedAt: s.created, UpdatedAt: s.touched}
}
