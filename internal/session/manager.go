// Package session owns the current bearer token: it derives expiry from the
// token payload, persists it across runs, and enforces automatic logout when
// the expiry passes.
package session

import (
	"errors"
	"sync"
	"time"
)

// ErrTokenExpired reports a login attempt with a token whose expiry is
// already in the past. The attempt mutates nothing.
var ErrTokenExpired = errors.New("token expired")

// EventKind identifies a session transition.
type EventKind int

const (
	// EventLogin fires after a successful Login.
	EventLogin EventKind = iota
	// EventLogout fires after an explicit Logout.
	EventLogout
	// EventExpired fires when the expiry timer logs the session out.
	EventExpired
	// EventStoreWarning fires when a storage write fails. The session itself
	// is unaffected — storage trouble must never take the client down.
	EventStoreWarning
)

// Event is delivered to the notify callback on every transition. It is the
// seam where navigation side effects hang: the TUI redirects on it, and
// tests observe it.
type Event struct {
	Kind EventKind
	Err  error // set for EventStoreWarning
}

// Manager maintains exactly one current session token. It is constructed
// once at startup and passed by reference to every consumer; consumers get a
// read-only view (Token, Authenticated) plus Login/Logout.
//
// Decode failures follow the permissive policy: a token that cannot be
// parsed logs in with no expiry known, so no timer is scheduled and the
// session lasts until explicit logout.
type Manager struct {
	mu     sync.Mutex
	store  Store
	now    func() time.Time
	notify func(Event)

	token  string
	claims Claims
	timer  *time.Timer
	gen    uint64 // bumped on every token change; stale timers check it
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithNotify sets the transition callback at construction time.
func WithNotify(fn func(Event)) Option {
	return func(m *Manager) { m.notify = fn }
}

// NewManager creates the manager and restores any persisted session. A
// persisted token that has already expired is cleared and yields an
// anonymous initial state; a storage read failure also yields anonymous.
// Restoration emits no events — there is nothing to redirect yet.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.restore()
	return m
}

func (m *Manager) restore() {
	tok, err := m.store.Load()
	if err != nil || tok == "" {
		return
	}
	claims, decErr := Decode(tok)
	if decErr != nil {
		claims = Claims{}
	}
	if claims.HasExpiry && !claims.Expiry.After(m.now()) {
		m.store.Clear() //nolint:errcheck // best-effort cleanup of a dead token
		return
	}
	m.mu.Lock()
	m.setLocked(tok, claims)
	m.mu.Unlock()
}

// Login adopts a new bearer token. A decodable expiry in the past rejects
// the attempt with ErrTokenExpired: no state change, no storage write. A
// malformed token is accepted with no expiry known (permissive policy).
// On success the token is persisted and EventLogin fires.
func (m *Manager) Login(token string) error {
	claims, decErr := Decode(token)
	if decErr != nil {
		claims = Claims{}
	}
	if claims.HasExpiry && !claims.Expiry.After(m.now()) {
		return ErrTokenExpired
	}

	m.mu.Lock()
	m.setLocked(token, claims)
	m.mu.Unlock()

	if err := m.store.Save(token); err != nil {
		m.emit(Event{Kind: EventStoreWarning, Err: err})
	}
	m.emit(Event{Kind: EventLogin})
	return nil
}

// Logout clears the in-memory session and the persisted token. Idempotent:
// logging out while anonymous still emits the redirect event but changes
// nothing else.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.emit(Event{Kind: EventStoreWarning, Err: err})
	}
	m.emit(Event{Kind: EventLogout})
}

// Token returns the currently held token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Authenticated reports whether a token is currently held. This is a
// presence check only; expiry is enforced by the timer, not re-validated
// here.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Expiry returns the session's expiry instant, when one was decodable.
func (m *Manager) Expiry() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims.Expiry, m.claims.HasExpiry
}

// SetNotify installs the transition callback after construction, once the
// consumer that handles redirects exists.
func (m *Manager) SetNotify(fn func(Event)) {
	m.mu.Lock()
	m.notify = fn
	m.mu.Unlock()
}

// Close stops the expiry timer without touching session state.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// setLocked replaces the held token. The previous expiry timer is stopped
// unconditionally first, so a superseded session can never log out a newer
// one, and the generation counter catches a timer that already fired.
func (m *Manager) setLocked(token string, claims Claims) {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
	m.token = token
	m.claims = claims
	if !claims.HasExpiry {
		return
	}
	gen := m.gen
	m.timer = time.AfterFunc(claims.Expiry.Sub(m.now()), func() {
		m.expire(gen)
	})
}

func (m *Manager) clearLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
	m.token = ""
	m.claims = Claims{}
}

// expire is the timer callback. It runs on its own goroutine, so it re-checks
// the generation under the lock before acting.
func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.token == "" {
		m.mu.Unlock()
		return
	}
	m.clearLocked()
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.emit(Event{Kind: EventStoreWarning, Err: err})
	}
	m.emit(Event{Kind: EventExpired})
}

func (m *Manager) emit(ev Event) {
	m.mu.Lock()
	fn := m.notify
	m.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}
