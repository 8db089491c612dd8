// Package cart maintains the authenticated user's cart as a local mirror of
// backend state.
//
// Consistency comes from mutate-then-refetch: every successful mutation is
// followed by a full reload of the authoritative cart, never a speculative
// local patch. The backend may clamp or merge quantities; the mirror always
// ends up showing what the backend decided. The cost is one extra round trip
// per mutation, acceptable for user-paced cart operations.
//
// Derived values (TotalItems, TotalPrice) are recomputed on every read, so
// they can not drift from the item list.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/shashiranjanraj/vitrine/pkg/api"
	"github.com/shashiranjanraj/vitrine/pkg/auth"
	"github.com/shashiranjanraj/vitrine/pkg/collection"
	"github.com/shashiranjanraj/vitrine/pkg/event"
	"github.com/shashiranjanraj/vitrine/pkg/logger"
	"github.com/shashiranjanraj/vitrine/pkg/notify"
)

// Manager owns the local cart mirror. One per active session.
type Manager struct {
	api      *api.Client
	auth     *auth.Manager
	notifier notify.Notifier

	// flight de-duplicates rapid repeated triggers of the same mutation
	// (e.g. a double-submitted add): a duplicate joins the in-flight call
	// instead of issuing a second request.
	flight singleflight.Group

	mu      sync.Mutex
	items   []api.CartItem
	loading bool
}

// NewManager returns a Manager subscribed to the session bus: a login
// transition triggers a full reload, a logout clears the mirror locally
// without a backend call.
func NewManager(client *api.Client, session *auth.Manager, bus *event.Bus, notifier notify.Notifier) *Manager {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	m := &Manager{api: client, auth: session, notifier: notifier}

	bus.Listen(auth.EventLogin, func(interface{}) { m.Refresh(context.Background()) })
	bus.Listen(auth.EventLogout, func(interface{}) { m.clear() })

	return m
}

// Refresh replaces the mirror with a fresh fetch of the backend cart.
// It is a no-op for anonymous sessions. Failures are logged, not returned:
// a refresh can be triggered by passive state changes where no user action
// is waiting on the result.
func (m *Manager) Refresh(ctx context.Context) {
	if !m.auth.IsAuthenticated() {
		return
	}

	m.setLoading(true)
	defer m.setLoading(false)

	items, err := m.api.Cart(ctx)
	if err != nil {
		logger.Warn("cart: refresh failed", "error", err)
		return
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

// Add puts quantity units of a product into the cart, then resynchronizes.
// Failures are notified and returned so the caller can react (e.g. prompt
// for login).
func (m *Manager) Add(ctx context.Context, productID, quantity int) error {
	_, err, _ := m.flight.Do(fmt.Sprintf("add:%d", productID), func() (interface{}, error) {
		if _, err := m.api.AddToCart(ctx, productID, quantity); err != nil {
			return nil, err
		}
		m.Refresh(ctx)
		return nil, nil
	})
	if err != nil {
		m.notifier.Error("Failed to add to cart", err.Error())
		return err
	}

	m.notifier.Success("Added to cart", "Product has been added to your cart.")
	return nil
}

// UpdateQuantity sets the quantity of an existing cart line, then
// resynchronizes.
func (m *Manager) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	_, err, _ := m.flight.Do(fmt.Sprintf("update:%d", itemID), func() (interface{}, error) {
		if _, err := m.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
			return nil, err
		}
		m.Refresh(ctx)
		return nil, nil
	})
	if err != nil {
		m.notifier.Error("Failed to update cart", err.Error())
		return err
	}
	return nil
}

// Remove deletes a cart line, then resynchronizes.
func (m *Manager) Remove(ctx context.Context, itemID int) error {
	_, err, _ := m.flight.Do(fmt.Sprintf("remove:%d", itemID), func() (interface{}, error) {
		if err := m.api.RemoveFromCart(ctx, itemID); err != nil {
			return nil, err
		}
		m.Refresh(ctx)
		return nil, nil
	})
	if err != nil {
		m.notifier.Error("Failed to remove item", err.Error())
		return err
	}

	m.notifier.Success("Removed from cart", "Product has been removed from your cart.")
	return nil
}

// clear empties the mirror locally. The backend cart is untouched.
func (m *Manager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

// Items returns a copy of the current cart lines.
func (m *Manager) Items() []api.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.CartItem, len(m.items))
	copy(out, m.items)
	return out
}

// Loading reports whether a refresh is in progress.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// TotalItems is the sum of quantities across all cart lines.
func (m *Manager) TotalItems() int {
	return collection.Reduce(m.Items(), 0, func(sum int, it api.CartItem) int {
		return sum + it.Quantity
	})
}

// TotalPrice is Σ(price × quantity) over the cart. A line whose product
// embed is absent contributes 0 — missing display data is not an error.
func (m *Manager) TotalPrice() decimal.Decimal {
	return collection.Reduce(m.Items(), decimal.Zero, func(sum decimal.Decimal, it api.CartItem) decimal.Decimal {
		if it.Product == nil {
			return sum
		}
		return sum.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	})
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = v
}
