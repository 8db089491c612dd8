package auth_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vitrine/pkg/api"
	"github.com/shashiranjanraj/vitrine/pkg/auth"
	"github.com/shashiranjanraj/vitrine/pkg/creds"
	"github.com/shashiranjanraj/vitrine/pkg/event"
	"github.com/shashiranjanraj/vitrine/pkg/httpx"
	"github.com/shashiranjanraj/vitrine/pkg/testkit"
)

type fixture struct {
	mt    *testkit.MockTransport
	store *creds.Store
	bus   *event.Bus
	notes *testkit.NotifyRecorder
	mgr   *auth.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mt := testkit.NewMockTransport()
	hc := httpx.New(0)
	hc.SetTransport(mt)

	store := creds.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	bus := event.NewBus()
	notes := testkit.NewNotifyRecorder()
	client := api.New("http://store.test", hc, store)

	return &fixture{
		mt:    mt,
		store: store,
		bus:   bus,
		notes: notes,
		mgr:   auth.NewManager(client, store, bus, notes),
	}
}

func (f *fixture) stubUser(user api.User) {
	f.mt.StubJSON(http.MethodGet, "/auth/me", 200, user)
}

func (f *fixture) stubLogin(token string) {
	f.mt.StubJSON(http.MethodPost, "/auth/login", 200,
		api.LoginResponse{AccessToken: token, TokenType: "bearer"})
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("no stored token resolves to anonymous without a backend call", func(t *testing.T) {
		f := newFixture(t)
		assert.True(t, f.mgr.Loading())

		f.mgr.Restore(ctx)

		assert.Equal(t, auth.StateAnonymous, f.mgr.State())
		assert.False(t, f.mgr.Loading())
		assert.Zero(t, f.mt.CallCount(http.MethodGet, "/auth/me"))
	})

	t.Run("rejected token is deleted and the session is anonymous", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Save("expired-abc"))
		f.mt.Stub(http.MethodGet, "/auth/me", 401, `{"detail":"Could not validate credentials"}`)

		f.mgr.Restore(ctx)

		assert.Equal(t, auth.StateAnonymous, f.mgr.State())
		assert.False(t, f.mgr.IsAuthenticated())
		_, err := f.store.Load()
		assert.ErrorIs(t, err, creds.ErrNoToken)
	})

	t.Run("valid token restores the session and fires the login event", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Save("tok-valid"))
		f.stubUser(api.User{ID: 3, Email: "jo@example.com", Username: "jo"})

		var gotPayload interface{}
		f.bus.Listen(auth.EventLogin, func(p interface{}) { gotPayload = p })

		f.mgr.Restore(ctx)

		assert.Equal(t, auth.StateAuthenticated, f.mgr.State())
		user, ok := f.mgr.User()
		require.True(t, ok)
		assert.Equal(t, "jo", user.Username)
		assert.Equal(t, user, gotPayload)

		calls := f.mt.Calls(http.MethodGet, "/auth/me")
		require.Len(t, calls, 1)
		assert.Equal(t, "tok-valid", calls[0].BearerToken())
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists the token and authenticates", func(t *testing.T) {
		f := newFixture(t)
		f.stubLogin("tok-new")
		f.stubUser(api.User{ID: 1, Email: "jo@example.com", Username: "jo"})

		fired := false
		f.bus.Listen(auth.EventLogin, func(interface{}) { fired = true })

		require.NoError(t, f.mgr.Login(ctx, "jo@example.com", "s3cret"))

		assert.True(t, f.mgr.IsAuthenticated())
		assert.True(t, fired)

		tok, err := f.store.Load()
		require.NoError(t, err)
		assert.Equal(t, "tok-new", tok)

		// The user fetch must have carried the freshly saved token.
		calls := f.mt.Calls(http.MethodGet, "/auth/me")
		require.Len(t, calls, 1)
		assert.Equal(t, "tok-new", calls[0].BearerToken())

		last, ok := f.notes.Last()
		require.True(t, ok)
		assert.Equal(t, "Welcome back!", last.Title)
	})

	t.Run("rejected credentials leave the session anonymous", func(t *testing.T) {
		f := newFixture(t)
		f.mt.Stub(http.MethodPost, "/auth/login", 401, `{"detail":"Invalid credentials"}`)

		err := f.mgr.Login(ctx, "jo@example.com", "wrong")
		require.Error(t, err)

		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Invalid credentials", apiErr.Message)

		assert.Equal(t, auth.StateAnonymous, f.mgr.State())
		_, err = f.store.Load()
		assert.ErrorIs(t, err, creds.ErrNoToken)

		last, ok := f.notes.Last()
		require.True(t, ok)
		assert.Equal(t, "error", last.Level)
		assert.Equal(t, "Login failed", last.Title)
	})

	t.Run("user fetch failure rolls the stored token back", func(t *testing.T) {
		f := newFixture(t)
		f.stubLogin("tok-halfway")
		f.mt.Stub(http.MethodGet, "/auth/me", 500, `{"detail":"boom"}`)

		err := f.mgr.Login(ctx, "jo@example.com", "s3cret")
		require.Error(t, err)

		assert.Equal(t, auth.StateAnonymous, f.mgr.State())
		_, err = f.store.Load()
		assert.ErrorIs(t, err, creds.ErrNoToken, "half-applied login must not leave a token behind")
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account then logs in with the same credentials", func(t *testing.T) {
		f := newFixture(t)
		f.mt.StubJSON(http.MethodPost, "/user/registration", 200, api.User{ID: 9})
		f.stubLogin("tok-reg")
		f.stubUser(api.User{ID: 9, Email: "new@example.com", Username: "new"})

		require.NoError(t, f.mgr.Register(ctx, "new@example.com", "new", "longenough"))

		assert.True(t, f.mgr.IsAuthenticated())
		assert.Equal(t, 1, f.mt.CallCount(http.MethodPost, "/user/registration"))
		assert.Equal(t, 1, f.mt.CallCount(http.MethodPost, "/auth/login"))
		assert.Contains(t, f.notes.Titles(), "Account created!")
	})

	t.Run("registration failure stops before login", func(t *testing.T) {
		f := newFixture(t)
		f.mt.Stub(http.MethodPost, "/user/registration", 400, `{"detail":"Email already registered"}`)

		err := f.mgr.Register(ctx, "dup@example.com", "dup", "longenough")
		require.Error(t, err)

		assert.Zero(t, f.mt.CallCount(http.MethodPost, "/auth/login"))
		last, ok := f.notes.Last()
		require.True(t, ok)
		assert.Equal(t, "Registration failed", last.Title)
	})
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.stubLogin("tok")
	f.stubUser(api.User{ID: 1, Username: "jo"})
	require.NoError(t, f.mgr.Login(context.Background(), "jo@example.com", "s3cret"))

	fired := false
	f.bus.Listen(auth.EventLogout, func(interface{}) { fired = true })

	f.mgr.Logout()

	assert.Equal(t, auth.StateAnonymous, f.mgr.State())
	assert.False(t, f.mgr.IsAuthenticated())
	assert.True(t, fired)
	_, err := f.store.Load()
	assert.ErrorIs(t, err, creds.ErrNoToken)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", auth.StateUnknown.String())
	assert.Equal(t, "anonymous", auth.StateAnonymous.String())
	assert.Equal(t, "authenticated", auth.StateAuthenticated.String())
}
