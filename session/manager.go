package session

import (
	"context"
	"sync"
	"time"
)

// Manager is the in-process holder of the current session. It mirrors every
// mutation into the configured Storage and notifies subscribers: explicit
// actions in, snapshots out.
type Manager struct {
	mu      sync.RWMutex
	current *Session
	storage Storage

	subMu sync.Mutex
	subs  []func(*Session)
}

// NewManager returns a manager bound to storage. Storage must not be nil;
// callers that want no persistence pass a [MemoryStorage].
func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage}
}

// Rehydrate loads the persisted session, if any, into memory. Corrupt or
// missing data leaves the manager unauthenticated; the verified flag never
// survives a restart.
func (m *Manager) Rehydrate(ctx context.Context) error {
	s, err := m.storage.Load(ctx)
	if err != nil {
		if err == ErrNoSession || err == ErrCorruptSession {
			return nil
		}
		return err
	}
	s.RoleVerified = false

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	m.notify(s)
	return nil
}

// Get returns a deep copy of the current session, or nil when logged out.
func (m *Manager) Get() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Set replaces the session and persists it. The stored copy always carries a
// fresh UpdatedAt.
func (m *Manager) Set(ctx context.Context, s *Session) error {
	if s != nil {
		s = s.Clone()
		now := time.Now().UTC()
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		s.UpdatedAt = now
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	var err error
	if s == nil {
		err = m.storage.Clear(ctx)
	} else {
		err = m.storage.Save(ctx, s)
	}
	m.notify(s)
	return err
}

// Clear wipes memory and storage. Idempotent: racing a refresh completion or
// a second logout is harmless.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	_ = m.storage.Clear(ctx)
	m.notify(nil)
}

// MarkVerified flips the role-verified flag on the current session and
// persists the change. A no-op when logged out.
func (m *Manager) MarkVerified(ctx context.Context) {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return
	}
	m.current.RoleVerified = true
	snapshot := m.current.Clone()
	m.mu.Unlock()

	_ = m.storage.Save(ctx, snapshot)
	m.notify(snapshot)
}

// Durable reports whether sessions survive a process restart, i.e. whether
// the backing storage is anything other than [MemoryStorage].
func (m *Manager) Durable() bool {
	_, inMemory := m.storage.(*MemoryStorage)
	return !inMemory
}

// OnChange registers fn to run after every session mutation with a snapshot
// of the new state (nil on logout). Callbacks run synchronously; keep them
// short.
func (m *Manager) OnChange(fn func(*Session)) {
	if fn == nil {
		return
	}
	m.subMu.Lock()
	m.subs = append(m.subs, fn)
	m.subMu.Unlock()
}

func (m *Manager) notify(s *Session) {
	m.subMu.Lock()
	subs := make([]func(*Session), len(m.subs))
	copy(subs, m.subs)
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(s.Clone())
	}
}
