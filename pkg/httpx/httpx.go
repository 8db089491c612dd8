// Package httpx provides a fluent HTTP client for outgoing backend calls.
//
// Usage:
//
//	resp, err := client.Get(baseURL + "/products").
//	    Bearer(token).
//	    Operation("products.list").
//	    WithContext(ctx).
//	    Send()
//
//	var products []Product
//	err = resp.JSON(&products)
//
// There are no automatic retries: every storefront operation is a user-paced
// action, and a retry is the user repeating it. A timeout applies only when
// one is configured on the Client.
package httpx

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/vitrine/pkg/metrics"
)

// RequestIDHeader is set on every outgoing request so backend logs can be
// correlated with a client session.
const RequestIDHeader = "X-Request-ID"

// defaultTransport is the connection-pooled transport used in production.
var defaultTransport = &http.Transport{
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// Client issues outgoing requests. Construct one per storefront session and
// share it between the API operations; it is safe for concurrent use.
type Client struct {
	hc      *http.Client
	timeout time.Duration
}

// New returns a Client. timeout is per request; zero means no timeout.
func New(timeout time.Duration) *Client {
	return &Client{
		hc:      &http.Client{Transport: defaultTransport},
		timeout: timeout,
	}
}

// SetTransport swaps the underlying RoundTripper. Tests install a
// testkit.MockTransport here to intercept calls.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.hc.Transport = rt
}

// ------------------- Request -------------------

// Request is a fluent request builder bound to a Client.
type Request struct {
	client    *Client
	method    string
	url       string
	headers   map[string]string
	body      interface{}
	form      url.Values
	operation string
	ctx       context.Context
}

// Get starts a GET request.
func (c *Client) Get(url string) *Request { return c.newRequest(http.MethodGet, url) }

// Post starts a POST request.
func (c *Client) Post(url string) *Request { return c.newRequest(http.MethodPost, url) }

// Put starts a PUT request.
func (c *Client) Put(url string) *Request { return c.newRequest(http.MethodPut, url) }

// Delete starts a DELETE request.
func (c *Client) Delete(url string) *Request { return c.newRequest(http.MethodDelete, url) }

func (c *Client) newRequest(method, url string) *Request {
	return &Request{
		client:    c,
		method:    method,
		url:       url,
		headers:   map[string]string{"Content-Type": "application/json", "Accept": "application/json"},
		operation: "unknown",
		ctx:       context.Background(),
	}
}

// Header sets a single header on the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Bearer sets the Authorization: Bearer <token> header.
func (r *Request) Bearer(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

// Body sets the request body. v is marshalled to JSON automatically.
// Pass a string or []byte to send raw bodies.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// BodyForm sets a form-encoded request body (used by the login endpoint).
func (r *Request) BodyForm(values url.Values) *Request {
	r.form = values
	return r
}

// Operation tags the request for metrics (e.g. "cart.add").
func (r *Request) Operation(name string) *Request {
	r.operation = name
	return r
}

// WithContext sets the request context.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx != nil {
		r.ctx = ctx
	}
	return r
}

// ------------------- Send -------------------

// Send executes the request, reads the full body, and records metrics.
func (r *Request) Send() (*Response, error) {
	start := time.Now()
	metrics.RequestInFlight.Inc()
	defer metrics.RequestInFlight.Dec()

	resp, err := r.do()

	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.ObserveRequest(r.method, r.operation, status, start)

	return resp, err
}

func (r *Request) do() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx := r.ctx
	if r.client.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.client.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("httpx: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	req.Header.Set(RequestIDHeader, newRequestID())

	resp, err := r.client.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpx: send: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("httpx: read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.form != nil {
		return strings.NewReader(r.form.Encode()), "application/x-www-form-urlencoded", nil
	}
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("httpx: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// newRequestID generates a cryptographically random 16-byte hex request ID.
func newRequestID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ------------------- Response -------------------

// Response wraps the HTTP response with convenience methods. The body has
// already been fully read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("httpx: decode JSON: %w", err)
	}
	return nil
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Raw)
}

// Header returns a single response header value.
func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}
