// Package api implements the typed client for the storefront backend.
//
// All calls go through a single request path that attaches the bearer token
// when one is stored, serializes JSON, and normalizes every failure —
// transport error, non-2xx status, malformed body — into *api.Error with a
// display-ready message. The client performs no caching and keeps no state
// beyond its configuration; session and cart state live in pkg/auth and
// pkg/cart.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/shashiranjanraj/vitrine/pkg/httpx"
)

// TokenSource supplies the current session token. Implemented by
// *creds.Store. Load errors mean "no token": the request simply goes out
// unauthenticated.
type TokenSource interface {
	Load() (string, error)
}

// Client is the single point of contact with the backend.
type Client struct {
	base   string
	http   *httpx.Client
	tokens TokenSource
}

// New returns a Client for the backend at baseURL (no trailing slash).
// tokens may be nil for a client that never authenticates.
func New(baseURL string, hc *httpx.Client, tokens TokenSource) *Client {
	return &Client{base: baseURL, http: hc, tokens: tokens}
}

// send attaches auth, executes the request and decodes a 2xx body into dest
// (skipped when dest is nil). Every failure path returns *Error.
func (c *Client) send(r *httpx.Request, dest interface{}) error {
	if c.tokens != nil {
		if tok, err := c.tokens.Load(); err == nil && tok != "" {
			r.Bearer(tok)
		}
	}

	resp, err := r.Send()
	if err != nil {
		return &Error{Message: fmt.Sprintf("backend unreachable: %v", err), cause: err}
	}

	if !resp.OK() {
		return newStatusError(resp.StatusCode, resp.Raw)
	}

	if dest == nil || len(resp.Raw) == 0 {
		return nil
	}
	if err := resp.JSON(dest); err != nil {
		return &Error{Message: "malformed response from backend", Status: resp.StatusCode, cause: err}
	}
	return nil
}

// ─────────────────────────────────────────────
// Auth
// ─────────────────────────────────────────────

// Login exchanges credentials for a token. The backend expects OAuth2-style
// form fields, with the email in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out LoginResponse
	err := c.send(c.http.Post(c.base+"/auth/login").
		BodyForm(form).
		Operation("auth.login").
		WithContext(ctx), &out)
	return out, err
}

// RegisterInput carries the registration profile. Zero-value optional fields
// get the backend's conventional defaults.
type RegisterInput struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Location       string `json:"location"`
	PaymentOptions string `json:"payment_options"`
	Role           string `json:"role"`
}

// Register creates an account. It does not log in; see auth.Manager.Register
// for the create-then-login sequence.
func (c *Client) Register(ctx context.Context, in RegisterInput) (User, error) {
	if in.PaymentOptions == "" {
		in.PaymentOptions = "Card"
	}
	if in.Role == "" {
		in.Role = "User"
	}

	var out User
	err := c.send(c.http.Post(c.base+"/user/registration").
		Body(in).
		Operation("auth.register").
		WithContext(ctx), &out)
	return out, err
}

// CurrentUser fetches the identity behind the stored token.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var out User
	err := c.send(c.http.Get(c.base+"/auth/me").
		Operation("auth.me").
		WithContext(ctx), &out)
	return out, err
}

// ─────────────────────────────────────────────
// Catalog
// ─────────────────────────────────────────────

// Products lists the catalog page. The backend returns either a bare JSON
// array or a paginated envelope; both are tolerated. An envelope whose
// products field is missing or malformed yields an empty list, not an error.
func (c *Client) Products(ctx context.Context, page, limit int) ([]Product, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}

	var raw json.RawMessage
	err := c.send(c.http.Get(fmt.Sprintf("%s/products?page=%d&limit=%d", c.base, page, limit)).
		Operation("products.list").
		WithContext(ctx), &raw)
	if err != nil {
		return nil, err
	}

	return decodeProducts(raw)
}

func decodeProducts(raw json.RawMessage) ([]Product, error) {
	// Older backend versions return the list directly.
	var list []Product
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	// Envelope shape. Shape mismatches inside it degrade to an empty list.
	var page productPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, &Error{Message: "malformed response from backend", cause: err}
	}
	if len(page.Products) == 0 {
		return []Product{}, nil
	}
	if err := json.Unmarshal(page.Products, &list); err != nil || list == nil {
		return []Product{}, nil
	}
	return list, nil
}

// Product fetches one catalog record.
func (c *Client) Product(ctx context.Context, id int) (Product, error) {
	var out Product
	err := c.send(c.http.Get(fmt.Sprintf("%s/products/%d", c.base, id)).
		Operation("products.get").
		WithContext(ctx), &out)
	return out, err
}

// Categories lists all product categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.send(c.http.Get(c.base+"/categories").
		Operation("categories.list").
		WithContext(ctx), &out)
	return out, err
}

// ─────────────────────────────────────────────
// Cart
// ─────────────────────────────────────────────

// Cart fetches the authenticated user's cart.
func (c *Client) Cart(ctx context.Context) ([]CartItem, error) {
	var out []CartItem
	err := c.send(c.http.Get(c.base+"/cart/me").
		Operation("cart.get").
		WithContext(ctx), &out)
	return out, err
}

// AddToCart puts quantity units of a product into the cart.
func (c *Client) AddToCart(ctx context.Context, productID, quantity int) (CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	var out CartItem
	err := c.send(c.http.Post(c.base+"/cart/add").
		Body(map[string]int{"product_id": productID, "quantity": quantity}).
		Operation("cart.add").
		WithContext(ctx), &out)
	return out, err
}

// UpdateCartItem sets the quantity of an existing cart line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID, quantity int) (CartItem, error) {
	var out CartItem
	err := c.send(c.http.Put(fmt.Sprintf("%s/cart/%d", c.base, itemID)).
		Body(map[string]int{"quantity": quantity}).
		Operation("cart.update").
		WithContext(ctx), &out)
	return out, err
}

// RemoveFromCart deletes a cart line.
func (c *Client) RemoveFromCart(ctx context.Context, itemID int) error {
	return c.send(c.http.Delete(fmt.Sprintf("%s/cart/%d", c.base, itemID)).
		Operation("cart.remove").
		WithContext(ctx), nil)
}

// ─────────────────────────────────────────────
// Orders
// ─────────────────────────────────────────────

// Orders lists the user's placed orders.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.send(c.http.Get(c.base+"/orders").
		Operation("orders.list").
		WithContext(ctx), &out)
	return out, err
}

// CreateOrder places an order from the current cart contents.
func (c *Client) CreateOrder(ctx context.Context) (Order, error) {
	var out Order
	err := c.send(c.http.Post(c.base+"/orders").
		Operation("orders.create").
		WithContext(ctx), &out)
	return out, err
}

// Order fetches one placed order with its items.
func (c *Client) Order(ctx context.Context, id int) (Order, error) {
	var out Order
	err := c.send(c.http.Get(fmt.Sprintf("%s/orders/%d", c.base, id)).
		Operation("orders.get").
		WithContext(ctx), &out)
	return out, err
}
