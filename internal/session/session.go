// Package session provides per-conversation scratch state.
package session

import (
	"sync"
	"time"
)

// PendingAction marks what an admin's next selection is staged for.
type PendingAction string

const (
	ActionNone   PendingAction = ""
	ActionEdit   PendingAction = "edit"
	ActionDelete PendingAction = "delete"
	ActionAssign PendingAction = "assign"
)

// Session is the mutable scratch state of one conversation. Each conversation
// is driven by a single logical actor, so fields need no locking; the Manager
// only guards its own map.
type Session struct {
	Key             string
	SelectedShopID  int64
	SelectedAgentID int64
	Pending         PendingAction

	// Staged is the candidate assignment set while the admin is inside the
	// shop-selection view. Seeded from storage on entry, committed on
	// confirm, discarded otherwise.
	Staged map[int64]bool

	// Agent identity after a successful login.
	AgentID   int64
	AgentName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates an empty session for a conversation key.
func NewSession(key string) *Session {
	now := time.Now()
	return &Session{
		Key:       key,
		Staged:    map[int64]bool{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clear resets every field back to the fresh state. Called only at the root
// reset event; intermediate navigation keeps the session intact.
func (s *Session) Clear() {
	s.SelectedShopID = 0
	s.SelectedAgentID = 0
	s.Pending = ActionNone
	s.Staged = map[int64]bool{}
	s.AgentID = 0
	s.AgentName = ""
	s.UpdatedAt = time.Now()
}

// SeedStaged replaces the staged set with the given membership.
func (s *Session) SeedStaged(shopIDs []int64) {
	s.Staged = make(map[int64]bool, len(shopIDs))
	for _, id := range shopIDs {
		s.Staged[id] = true
	}
	s.UpdatedAt = time.Now()
}

// ToggleStaged flips a shop's membership in the staged set.
func (s *Session) ToggleStaged(shopID int64) {
	if s.Staged == nil {
		s.Staged = map[int64]bool{}
	}
	if s.Staged[shopID] {
		delete(s.Staged, shopID)
	} else {
		s.Staged[shopID] = true
	}
	s.UpdatedAt = time.Now()
}

// Manager hands out sessions keyed strictly by conversation identity so
// simultaneous users never share state.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for a conversation key, creating it on
// first contact.
func (m *Manager) GetOrCreate(key string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		return s
	}
	s := NewSession(key)
	m.sessions[key] = s
	return s
}

// Delete drops a conversation's session entirely.
func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// Len reports how many conversations currently hold a session.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
