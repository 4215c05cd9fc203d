package client

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tazhibayda/algojourney/internal/security"
)

// Logout reasons passed to the onLogout callback.
const (
	ReasonMissing = "missing"
	ReasonExpired = "expired"
)

// expiryGrace is added to exp before the scheduled logout fires.
const expiryGrace = 50 * time.Millisecond

// SessionManager ends the local session the moment the stored token
// expires, or as soon as it is missing or unreadable. It reads exp without
// checking the signature; the server still verifies every request.
type SessionManager struct {
	store    TokenStore
	onLogout func(reason string)
	now      func() time.Time

	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	unsub    func()
	started  bool
	stopped  bool
	loggedIn bool
}

func NewSessionManager(store TokenStore, onLogout func(reason string)) *SessionManager {
	return &SessionManager{store: store, onLogout: onLogout, now: time.Now}
}

// WithClock is for tests. Must be called before Start.
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

// Start validates the stored token and follows later store changes.
func (m *SessionManager) Start() {
	m.mu.Lock()
	if m.started || m.stopped {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.loggedIn = true // a missing token at start counts as a logout
	m.mu.Unlock()

	unsub := m.store.Subscribe(func(key string) {
		if key == TokenKey {
			m.Revalidate()
		}
	})
	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()

	m.Revalidate()
}

// OnVisible is called when the client regains focus.
func (m *SessionManager) OnVisible() { m.Revalidate() }

// Revalidate re-checks the stored token and reschedules the expiry timer.
func (m *SessionManager) Revalidate() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.cancelLocked()

	tok, ok := m.store.Get()
	if !ok || tok == "" {
		m.logoutLocked(ReasonMissing, false)
		return
	}
	exp, err := expiry(tok)
	now := m.now()
	if err != nil || !exp.After(now) {
		m.logoutLocked(ReasonExpired, true)
		return
	}

	m.loggedIn = true
	gen := m.gen
	m.timer = time.AfterFunc(exp.Sub(now)+expiryGrace, func() { m.expire(gen) })
	m.mu.Unlock()
}

// Stop cancels the timer and the store subscription. Once Stop returns no
// new callback starts, but one already running may still be finishing.
// Callbacks run without locks held, so onLogout may call Stop itself.
func (m *SessionManager) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.cancelLocked()
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Claims decodes the display fields of the stored token.
func (m *SessionManager) Claims() (*security.Claims, bool) {
	tok, ok := m.store.Get()
	if !ok {
		return nil, false
	}
	c := &security.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, c); err != nil {
		return nil, false
	}
	return c, true
}

func (m *SessionManager) expire(gen uint64) {
	m.mu.Lock()
	if m.stopped || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.logoutLocked(ReasonExpired, true)
}

// logoutLocked releases m.mu. The callback fires once per session.
func (m *SessionManager) logoutLocked(reason string, clear bool) {
	fire := m.loggedIn
	m.loggedIn = false
	m.mu.Unlock()

	if clear {
		m.store.Clear()
	}
	m.mu.Lock()
	fire = fire && !m.stopped
	m.mu.Unlock()
	if fire && m.onLogout != nil {
		m.onLogout(reason)
	}
}

func (m *SessionManager) cancelLocked() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func expiry(tok string) (time.Time, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &rc); err != nil {
		return time.Time{}, err
	}
	if rc.ExpiresAt == nil {
		return time.Time{}, jwt.ErrTokenRequiredClaimMissing
	}
	return rc.ExpiresAt.Time, nil
}
