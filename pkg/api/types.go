package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// User is the backend's identity record. It is fetched fresh, never mutated
// locally.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Product is a catalog record. Price is normalized to a decimal at the API
// boundary: some backend versions serialize it as a JSON number, others as a
// string, and decimal.Decimal unmarshals both exactly.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    int             `json:"category_id"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// Category groups products.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CartItem is one line of the cart. Product is a denormalized embed for
// display; it may be absent and is never authoritative.
type CartItem struct {
	ID        int      `json:"id"`
	ProductID int      `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// Order is a placed order with its line items. Read-only client-side.
type Order struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
	Items       []OrderItem     `json:"items"`
}

// OrderItem is one line of a placed order, with the price captured at
// purchase time.
type OrderItem struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *Product        `json:"product,omitempty"`
}

// LoginResponse is the token grant returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// productPage is the paginated envelope some backend versions return from
// GET /products. Products stays raw so a malformed field degrades to an
// empty list instead of failing the whole call.
type productPage struct {
	Products   json.RawMessage `json:"products"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
