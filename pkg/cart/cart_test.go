package cart_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vitrine/pkg/api"
	"github.com/shashiranjanraj/vitrine/pkg/auth"
	"github.com/shashiranjanraj/vitrine/pkg/cart"
	"github.com/shashiranjanraj/vitrine/pkg/creds"
	"github.com/shashiranjanraj/vitrine/pkg/event"
	"github.com/shashiranjanraj/vitrine/pkg/httpx"
	"github.com/shashiranjanraj/vitrine/pkg/testkit"
)

type fixture struct {
	mt    *testkit.MockTransport
	notes *testkit.NotifyRecorder
	auth  *auth.Manager
	cart  *cart.Manager
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

	session := auth.NewManager(client, store, bus, notes)
	return &fixture{
		mt:    mt,
		notes: notes,
		auth:  session,
		cart:  cart.NewManager(client, session, bus, notes),
	}
}

// login authenticates the fixture's session; the login event loads whatever
// /cart/me is stubbed to at that moment.
func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.mt.StubJSON(http.MethodPost, "/auth/login", 200, api.LoginResponse{AccessToken: "tok", TokenType: "bearer"})
	f.mt.StubJSON(http.MethodGet, "/auth/me", 200, api.User{ID: 1, Username: "jo"})
	require.NoError(t, f.auth.Login(context.Background(), "jo@example.com", "s3cret"))
}

func product(id int, price string) *api.Product {
	return &api.Product{ID: id, Name: "p", Price: decimal.RequireFromString(price)}
}

func TestLoginLoadsCart(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
		{ID: 1, ProductID: 10, Quantity: 2, Product: product(10, "9.99")},
	})

	f.login(t)

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, f.mt.CallCount(http.MethodGet, "/cart/me"))
}

func TestRefreshIsNoOpWhenAnonymous(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{})

	f.cart.Refresh(context.Background())

	assert.Zero(t, f.mt.CallCount(http.MethodGet, "/cart/me"))
	assert.Empty(t, f.cart.Items())
}

func TestRefreshFailureKeepsMirror(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1, Product: product(10, "5.00")},
	})
	f.login(t)
	require.Len(t, f.cart.Items(), 1)

	f.mt.Stub(http.MethodGet, "/cart/me", 500, `{"detail":"boom"}`)
	f.cart.Refresh(context.Background())

	// The stale mirror survives a failed refresh.
	assert.Len(t, f.cart.Items(), 1)
}

func TestAddMutatesThenRefetches(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{})
	f.login(t)

	// The backend is the authority on the post-add state: it may merge the
	// new line into an existing one. The mirror takes whatever it returns.
	f.mt.StubJSON(http.MethodPost, "/cart/add", 200, api.CartItem{ID: 1, ProductID: 10, Quantity: 1})
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
		{ID: 1, ProductID: 10, Quantity: 3, Product: product(10, "9.99")},
	})

	require.NoError(t, f.cart.Add(context.Background(), 10, 1))

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity, "mirror shows the backend's decision, not a local patch")
	assert.Equal(t, 2, f.mt.CallCount(http.MethodGet, "/cart/me"), "one load at login, one after the add")

	last, ok := f.notes.Last()
	require.True(t, ok)
	assert.Equal(t, "Added to cart", last.Title)
}

func TestAddFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{})
	f.login(t)

	f.mt.Stub(http.MethodPost, "/cart/add", 400, `{"detail":"Not enough stock"}`)

	err := f.cart.Add(context.Background(), 10, 5)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not enough stock", apiErr.Message)

	assert.Equal(t, 1, f.mt.CallCount(http.MethodGet, "/cart/me"), "no refetch after a failed mutation")
	last, ok := f.notes.Last()
	require.True(t, ok)
	assert.Equal(t, "error", last.Level)
}

func TestDuplicateAddJoinsInFlightCall(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{})
	f.login(t)

	entered, release := f.mt.StubGated(http.MethodPost, "/cart/add", 200,
		`{"id":1,"product_id":10,"quantity":1}`)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1, Product: product(10, "9.99")},
	})

	errs := make(chan error, 2)
	go func() { errs <- f.cart.Add(context.Background(), 10, 1) }()
	<-entered // the first add is now held inside the transport

	go func() { errs <- f.cart.Add(context.Background(), 10, 1) }()
	time.Sleep(50 * time.Millisecond) // let the duplicate reach the guard
	release()

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, 1, f.mt.CallCount(http.MethodPost, "/cart/add"),
		"a duplicate trigger joins the in-flight add instead of issuing its own request")
	assert.Equal(t, 1, f.cart.TotalItems())
}

func TestUpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
		{ID: 5, ProductID: 10, Quantity: 1, Product: product(10, "9.99")},
	})
	f.login(t)

	t.Run("update quantity resynchronizes", func(t *testing.T) {
		f.mt.StubJSON(http.MethodPut, "/cart/5", 200, api.CartItem{ID: 5, Quantity: 4})
		f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
			{ID: 5, ProductID: 10, Quantity: 4, Product: product(10, "9.99")},
		})

		require.NoError(t, f.cart.UpdateQuantity(context.Background(), 5, 4))
		assert.Equal(t, 4, f.cart.TotalItems())
	})

	t.Run("remove resynchronizes to empty", func(t *testing.T) {
		f.mt.Stub(http.MethodDelete, "/cart/5", 204, "")
		f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{})

		require.NoError(t, f.cart.Remove(context.Background(), 5))
		assert.Empty(t, f.cart.Items())

		last, ok := f.notes.Last()
		require.True(t, ok)
		assert.Equal(t, "Removed from cart", last.Title)
	})
}

func TestLogoutClearsMirrorLocally(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
		{ID: 1, ProductID: 10, Quantity: 2, Product: product(10, "9.99")},
	})
	f.login(t)
	require.NotEmpty(t, f.cart.Items())

	deleted := f.mt.CallCount(http.MethodDelete, "")
	f.auth.Logout()

	assert.Empty(t, f.cart.Items())
	assert.Zero(t, f.cart.TotalItems())
	assert.Equal(t, deleted, f.mt.CallCount(http.MethodDelete, ""), "logout must not touch the backend cart")
}

func TestDerivedTotals(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
		{ID: 1, ProductID: 10, Quantity: 2, Product: product(10, "9.99")},
		{ID: 2, ProductID: 11, Quantity: 1, Product: product(11, "20.00")},
	})
	f.login(t)

	assert.Equal(t, 3, f.cart.TotalItems())
	assert.Equal(t, "39.98", f.cart.TotalPrice().StringFixed(2))
}

func TestTotalPriceSkipsMissingProductEmbed(t *testing.T) {
	f := newFixture(t)
	f.mt.StubJSON(http.MethodGet, "/cart/me", 200, []api.CartItem{
		{ID: 1, ProductID: 10, Quantity: 2, Product: product(10, "9.99")},
		{ID: 2, ProductID: 11, Quantity: 5}, // product embed absent
	})
	f.login(t)

	assert.Equal(t, 7, f.cart.TotalItems(), "quantities count even without the embed")
	assert.Equal(t, "19.98", f.cart.TotalPrice().StringFixed(2))
}
