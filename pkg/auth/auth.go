// Package auth owns the client-side authentication session.
//
// The session is a small state machine: Unknown until the startup check has
// run, then Anonymous or Authenticated. IsAuthenticated is always the derived
// predicate "a user record is present" — it is never set directly, so the
// session can not end up half-applied: the token write happens before the
// user fetch, which happens before the state update, and a failed user fetch
// rolls the token back.
//
// Transitions fire EventLogin / EventLogout on the session bus; the cart
// manager reacts to them.
package auth

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/vitrine/pkg/api"
	"github.com/shashiranjanraj/vitrine/pkg/creds"
	"github.com/shashiranjanraj/vitrine/pkg/event"
	"github.com/shashiranjanraj/vitrine/pkg/logger"
	"github.com/shashiranjanraj/vitrine/pkg/notify"
)

// Events fired on the session bus. EventLogin's payload is the api.User;
// EventLogout's payload is nil.
const (
	EventLogin  = "auth.login"
	EventLogout = "auth.logout"
)

// State is the session's position in the auth state machine.
type State int

const (
	// StateUnknown means the stored session has not been checked yet.
	StateUnknown State = iota
	// StateAnonymous means there is no valid session.
	StateAnonymous
	// StateAuthenticated means a user is logged in.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Manager is the auth session manager. One per active session.
type Manager struct {
	api      *api.Client
	store    *creds.Store
	bus      *event.Bus
	notifier notify.Notifier

	mu      sync.Mutex
	state   State
	user    *api.User
	loading bool
}

// NewManager returns a Manager in StateUnknown. Call Restore to resolve the
// stored session before relying on IsAuthenticated.
func NewManager(client *api.Client, store *creds.Store, bus *event.Bus, notifier notify.Notifier) *Manager {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Manager{
		api:      client,
		store:    store,
		bus:      bus,
		notifier: notifier,
		state:    StateUnknown,
		loading:  true,
	}
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the current user, when one is present.
func (m *Manager) User() (api.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return api.User{}, false
	}
	return *m.user, true
}

// IsAuthenticated reports whether a user is present. It is derived, never
// stored.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.User()
	return ok
}

// Loading is true until the startup session check (Restore) has resolved.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Restore resolves the stored session on startup. A stored token that the
// backend rejects is deleted and the session becomes anonymous; restoration
// failure is never an error for the caller.
func (m *Manager) Restore(ctx context.Context) {
	defer m.setLoaded()

	if _, err := m.store.Load(); err != nil {
		m.setAnonymous()
		return
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		logger.Info("auth: stored session rejected, clearing token", "error", err)
		if cerr := m.store.Clear(); cerr != nil {
			logger.Warn("auth: clearing stale token failed", "error", cerr)
		}
		m.setAnonymous()
		return
	}

	m.setAuthenticated(user)
	m.bus.Fire(EventLogin, user)
}

// Login authenticates and leaves the session either fully authenticated or
// fully anonymous. The failure is notified and returned.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.setAnonymous()
		m.notifier.Error("Login failed", err.Error())
		return err
	}

	if err := m.store.Save(resp.AccessToken); err != nil {
		m.setAnonymous()
		m.notifier.Error("Login failed", err.Error())
		return err
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		// Roll the token back rather than leave a token with no user.
		if cerr := m.store.Clear(); cerr != nil {
			logger.Warn("auth: rollback of stored token failed", "error", cerr)
		}
		m.setAnonymous()
		m.notifier.Error("Login failed", err.Error())
		return err
	}

	m.setAuthenticated(user)
	m.bus.Fire(EventLogin, user)
	m.notifier.Success("Welcome back!", "You have successfully logged in.")
	return nil
}

// Register creates an account and immediately logs in with the same
// credentials. A failure at either step is notified and returned.
func (m *Manager) Register(ctx context.Context, email, username, password string) error {
	_, err := m.api.Register(ctx, api.RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		m.notifier.Error("Registration failed", err.Error())
		return err
	}

	if err := m.Login(ctx, email, password); err != nil {
		return err
	}

	m.notifier.Success("Account created!", "Welcome to our store.")
	return nil
}

// Logout clears the stored token and the in-memory user. It always succeeds;
// a failure to remove the token file is only logged.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		logger.Warn("auth: clearing token on logout failed", "error", err)
	}

	m.setAnonymous()
	m.bus.Fire(EventLogout, nil)
	m.notifier.Success("Logged out", "You have been logged out successfully.")
}

// ─────────────────────────────────────────────
// State updates
// ─────────────────────────────────────────────
//
// Events are fired by the callers after these return: listeners (the cart)
// call back into the manager, so firing under the lock would deadlock.

func (m *Manager) setAuthenticated(user api.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &user
	m.state = StateAuthenticated
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.state = StateAnonymous
}

func (m *Manager) setLoaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
}
