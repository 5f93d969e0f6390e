package session

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory Store with optional write-failure injection.
type memStore struct {
	mu      sync.Mutex
	token   string
	saves   int
	clears  int
	saveErr error
}

func (s *memStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.token = ""
	return nil
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// eventRecorder collects events and signals arrivals on a channel.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
	ch     chan EventKind
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{ch: make(chan EventKind, 16)}
}

func (r *eventRecorder) notify(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	r.ch <- ev.Kind
}

func (r *eventRecorder) wait(t *testing.T, want EventKind) {
	t.Helper()
	select {
	case got := <-r.ch:
		if got != want {
			t.Fatalf("event = %v, want %v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event %v", want)
	}
}

func TestLoginWithFutureExpiry(t *testing.T) {
	store := &memStore{}
	rec := newEventRecorder()
	m := NewManager(store, WithNotify(rec.notify))
	defer m.Close()

	tok := mintTokenExp(time.Now().Add(time.Hour))
	if err := m.Login(tok); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	rec.wait(t, EventLogin)

	if !m.Authenticated() {
		t.Error("Authenticated() = false after login")
	}
	if m.Token() != tok {
		t.Errorf("Token() = %q, want the logged-in token", m.Token())
	}
	if store.token != tok {
		t.Error("token was not persisted")
	}
	if _, ok := m.Expiry(); !ok {
		t.Error("Expiry() reports no expiry for a token that has one")
	}
}

func TestLoginExpiredTokenRejected(t *testing.T) {
	store := &memStore{}
	// Fixed clock, so "expired" is exact rather than racing the wall clock.
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	m := NewManager(store, WithClock(func() time.Time { return now }))
	defer m.Close()

	err := m.Login(mintTokenExp(now.Add(-time.Minute)))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Login() error = %v, want ErrTokenExpired", err)
	}
	if m.Authenticated() {
		t.Error("Authenticated() = true after rejected login")
	}
	if store.saveCount() != 0 {
		t.Error("rejected login wrote to the store")
	}
}

func TestLoginMalformedTokenPermissive(t *testing.T) {
	store := &memStore{}
	m := NewManager(store)
	defer m.Close()

	if err := m.Login("not-a-jwt"); err != nil {
		t.Fatalf("Login() error for malformed token: %v", err)
	}
	if !m.Authenticated() {
		t.Error("Authenticated() = false, malformed tokens must still log in")
	}
	if _, ok := m.Expiry(); ok {
		t.Error("Expiry() reports an expiry for an undecodable token")
	}
}

func TestAutoLogoutOnExpiry(t *testing.T) {
	store := &memStore{}
	rec := newEventRecorder()
	m := NewManager(store, WithNotify(rec.notify))
	defer m.Close()

	// Expiry resolution is whole seconds, so this is the shortest reliable
	// lifetime.
	if err := m.Login(mintTokenExp(time.Now().Add(time.Second))); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	rec.wait(t, EventLogin)
	rec.wait(t, EventExpired)

	if m.Authenticated() {
		t.Error("Authenticated() = true after expiry")
	}
	if store.token != "" {
		t.Error("persisted token survived expiry")
	}
}

func TestSupersededTimerDoesNotFire(t *testing.T) {
	store := &memStore{}
	rec := newEventRecorder()
	m := NewManager(store, WithNotify(rec.notify))
	defer m.Close()

	// First login expires in a second; the second supersedes it before the
	// timer fires.
	if err := m.Login(mintTokenExp(time.Now().Add(time.Second))); err != nil {
		t.Fatalf("first Login() error: %v", err)
	}
	rec.wait(t, EventLogin)

	second := mintTokenExp(time.Now().Add(time.Hour))
	if err := m.Login(second); err != nil {
		t.Fatalf("second Login() error: %v", err)
	}
	rec.wait(t, EventLogin)

	// Wait past the first token's expiry: nothing should happen.
	time.Sleep(1200 * time.Millisecond)
	select {
	case kind := <-rec.ch:
		t.Fatalf("unexpected event %v after supersede", kind)
	default:
	}
	if m.Token() != second {
		t.Error("second session was logged out by the first token's timer")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	store := &memStore{}
	rec := newEventRecorder()
	m := NewManager(store, WithNotify(rec.notify))
	defer m.Close()

	m.Logout()
	rec.wait(t, EventLogout)
	m.Logout()
	rec.wait(t, EventLogout)

	if m.Authenticated() {
		t.Error("Authenticated() = true after logout")
	}
}

func TestLogoutCancelsExpiryTimer(t *testing.T) {
	store := &memStore{}
	rec := newEventRecorder()
	m := NewManager(store, WithNotify(rec.notify))
	defer m.Close()

	if err := m.Login(mintTokenExp(time.Now().Add(time.Second))); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	rec.wait(t, EventLogin)
	m.Logout()
	rec.wait(t, EventLogout)

	time.Sleep(1200 * time.Millisecond)
	select {
	case kind := <-rec.ch:
		t.Fatalf("unexpected event %v after logout", kind)
	default:
	}
}

func TestRestoreValidPersistedToken(t *testing.T) {
	tok := mintTokenExp(time.Now().Add(time.Hour))
	store := &memStore{token: tok}
	rec := newEventRecorder()
	m := NewManager(store, WithNotify(rec.notify))
	defer m.Close()

	if m.Token() != tok {
		t.Errorf("Token() = %q, want the persisted token restored", m.Token())
	}
	// Restoration is silent.
	select {
	case kind := <-rec.ch:
		t.Fatalf("unexpected event %v during restore", kind)
	default:
	}
}

func TestRestoreExpiredPersistedToken(t *testing.T) {
	store := &memStore{token: mintTokenExp(time.Now().Add(-time.Minute))}
	m := NewManager(store)
	defer m.Close()

	if m.Authenticated() {
		t.Error("Authenticated() = true after restoring an expired token")
	}
	if store.clears == 0 {
		t.Error("expired persisted token was not cleared")
	}
}

func TestStoreWarningDoesNotBlockLogin(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	rec := newEventRecorder()
	m := NewManager(store, WithNotify(rec.notify))
	defer m.Close()

	if err := m.Login(mintTokenExp(time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	rec.wait(t, EventStoreWarning)
	rec.wait(t, EventLogin)

	if !m.Authenticated() {
		t.Error("Authenticated() = false, a storage failure must not end the session")
	}
}

func TestSetNotifyAfterConstruction(t *testing.T) {
	store := &memStore{}
	m := NewManager(store)
	defer m.Close()

	rec := newEventRecorder()
	m.SetNotify(rec.notify)
	if err := m.Login(mintTokenExp(time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	rec.wait(t, EventLogin)
}
