package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned by Storage.Load when nothing is persisted.
var ErrNoSession = errors.New("no session stored")

// Storage is the durable key-value boundary the SDK persists sessions
// through. Implementations must be safe for concurrent use. Load returns
// [ErrNoSession] when empty and [ErrCorruptSession] when the stored blob is
// unreadable; both are treated identically by callers.
type Storage interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// MemoryStorage keeps the encoded session in memory. It exists for tests and
// for callers that explicitly do not want persistence across restarts.
type MemoryStorage struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load implements Storage.
func (m *MemoryStorage) Load(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blob == nil {
		return nil, ErrNoSession
	}
	return Decode(m.blob)
}

// Save implements Storage.
func (m *MemoryStorage) Save(ctx context.Context, s *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blob = data
	m.mu.Unlock()
	return nil
}

// Clear implements Storage.
func (m *MemoryStorage) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.blob = nil
	m.mu.Unlock()
	return nil
}
