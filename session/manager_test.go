package session

import (
	"context"
	"testing"
)

func TestManagerRehydrateDropsVerifiedFlag(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	if err := store.Save(ctx, validSession()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := NewManager(store)
	if err := m.Rehydrate(ctx); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}

	s := m.Get()
	if !s.Authenticated() {
		t.Fatal("rehydrated session not authenticated")
	}
	if s.RoleVerified {
		t.Fatal("verified flag survived rehydration")
	}
	if s.HasRole(RoleUser) {
		t.Fatal("unverified session passed a role check")
	}
}

func TestManagerRehydrateToleratesEmptyStore(t *testing.T) {
	m := NewManager(NewMemoryStorage())
	if err := m.Rehydrate(context.Background()); err != nil {
		t.Fatalf("rehydrate empty: %v", err)
	}
	if m.Get() != nil {
		t.Fatal("session appeared from an empty store")
	}
}

func TestManagerSetPersists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	m := NewManager(store)

	if err := m.Set(ctx, validSession()); err != nil {
		t.Fatalf("set: %v", err)
	}

	persisted, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load from store: %v", err)
	}
	if persisted.User.ID != "u-1" {
		t.Fatalf("persisted user = %+v", persisted.User)
	}
	if persisted.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt not stamped")
	}
}

func TestManagerGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage())
	if err := m.Set(ctx, validSession()); err != nil {
		t.Fatalf("set: %v", err)
	}

	a := m.Get()
	a.User.Role = RoleSuperAdmin
	if b := m.Get(); b.User.Role != RoleUser {
		t.Fatal("mutating a snapshot leaked into the manager")
	}
}

func TestManagerClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage())
	if err := m.Set(ctx, validSession()); err != nil {
		t.Fatalf("set: %v", err)
	}

	m.Clear(ctx)
	m.Clear(ctx)
	if m.Get() != nil {
		t.Fatal("session survived clear")
	}
}

func TestManagerOnChange(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage())

	var events []*Session
	m.OnChange(func(s *Session) { events = append(events, s) })

	if err := m.Set(ctx, validSession()); err != nil {
		t.Fatalf("set: %v", err)
	}
	m.Clear(ctx)

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0] == nil || events[0].User.ID != "u-1" {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[1] != nil {
		t.Fatalf("logout event = %+v, want nil", events[1])
	}
}

func TestManagerMarkVerified(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage())

	// No-op while logged out.
	m.MarkVerified(ctx)

	s := validSession()
	s.RoleVerified = false
	if err := m.Set(ctx, s); err != nil {
		t.Fatalf("set: %v", err)
	}

	m.MarkVerified(ctx)
	if got := m.Get(); !got.RoleVerified {
		t.Fatal("verified flag not set")
	}
}

func TestManagerDurable(t *testing.T) {
	if NewManager(NewMemoryStorage()).Durable() {
		t.Fatal("memory storage reported durable")
	}
	store, err := NewFileStorage(t.TempDir() + "/session.json")
	if err != nil {
		t.Fatalf("file storage: %v", err)
	}
	if !NewManager(store).Durable() {
		t.Fatal("file storage reported not durable")
	}
}
