package order

import (
	"sync"

	"github.com/google/uuid"
)

// Manager tracks the open drafts by id. Each draft serializes its own
// mutations; the manager only guards the lookup table.
type Manager struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*Draft
}

func NewManager() *Manager {
	return &Manager{drafts: make(map[uuid.UUID]*Draft)}
}

// Open creates and registers a new draft.
func (m *Manager) Open(kind string) *Draft {
	d := NewDraft(kind)
	m.mu.Lock()
	m.drafts[d.ID] = d
	m.mu.Unlock()
	return d
}

// Get looks up an open draft.
func (m *Manager) Get(id uuid.UUID) (*Draft, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[id]
	return d, ok
}

// Close drops a draft from the table.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	delete(m.drafts, id)
	m.mu.Unlock()
}
