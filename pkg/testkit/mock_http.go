// Package testkit supports testing code that talks to the storefront
// backend without a network.
//
// MockTransport implements http.RoundTripper: install it on the shared
// httpx.Client, stub the endpoints the test exercises, then assert on the
// recorded calls.
//
//	mt := testkit.NewMockTransport()
//	mt.StubJSON(http.MethodGet, "/auth/me", 200, user)
//	client.SetTransport(mt)
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Call records one intercepted request.
type Call struct {
	Method string
	Path   string // URL path without query
	Query  string
	Header http.Header
	Body   []byte
}

type stub struct {
	method string
	path   string
	status int
	body   []byte
	err    error

	// entered/gate make the stub blocking: a request signals entered, then
	// waits for gate before the response is produced.
	entered chan struct{}
	gate    chan struct{}
}

// MockTransport matches outgoing requests against stubbed endpoints and
// returns synthetic responses. Unstubbed calls get a 404 with a JSON detail
// body, so they surface as ordinary backend errors rather than panics.
type MockTransport struct {
	mu    sync.Mutex
	stubs []stub
	calls []Call
}

// NewMockTransport returns an empty transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Stub registers a synthetic response for method+path. path is matched
// exactly against the request's URL path. Later stubs for the same endpoint
// win, so a test can re-stub between steps.
func (mt *MockTransport) Stub(method, path string, status int, body string) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, stub{method: method, path: path, status: status, body: []byte(body)})
}

// StubJSON registers a response with v marshalled as the JSON body.
func (mt *MockTransport) StubJSON(method, path string, status int, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testkit: marshal stub body for %s %s: %v", method, path, err))
	}
	mt.Stub(method, path, status, string(raw))
}

// StubGated registers a stub whose response is held back until release is
// called. Each request that reaches the stub sends on entered first, so a
// test can overlap a second trigger with a call it knows is in flight.
// release is idempotent; once called, later requests respond immediately.
func (mt *MockTransport) StubGated(method, path string, status int, body string) (entered <-chan struct{}, release func()) {
	in := make(chan struct{}, 16)
	gate := make(chan struct{})

	mt.mu.Lock()
	mt.stubs = append(mt.stubs, stub{
		method: method, path: path, status: status, body: []byte(body),
		entered: in, gate: gate,
	})
	mt.mu.Unlock()

	var once sync.Once
	return in, func() { once.Do(func() { close(gate) }) }
}

// StubError makes method+path fail at the transport level, simulating an
// unreachable backend.
func (mt *MockTransport) StubError(method, path string, err error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, stub{method: method, path: path, err: err})
}

// RoundTrip intercepts the request, records it, and answers from the stubs.
// Like a real transport, it fails requests whose context is already done.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	body := []byte{}
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	mt.mu.Lock()
	mt.calls = append(mt.calls, Call{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   body,
	})

	var found *stub
	for i := range mt.stubs {
		s := &mt.stubs[i]
		if s.method == req.Method && s.path == req.URL.Path {
			found = s // keep scanning: last registered wins
		}
	}
	mt.mu.Unlock()

	if found == nil {
		return synthetic(req, http.StatusNotFound, []byte(`{"detail":"no stub configured"}`)), nil
	}
	if found.err != nil {
		return nil, found.err
	}
	if found.entered != nil {
		select {
		case found.entered <- struct{}{}:
		default:
		}
		<-found.gate
	}
	return synthetic(req, found.status, found.body), nil
}

// Calls returns the recorded calls matching method+path; empty strings match
// anything.
func (mt *MockTransport) Calls(method, path string) []Call {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var out []Call
	for _, c := range mt.calls {
		if (method == "" || c.Method == method) && (path == "" || c.Path == path) {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns how many calls matched method+path.
func (mt *MockTransport) CallCount(method, path string) int {
	return len(mt.Calls(method, path))
}

// Reset drops all recorded calls, keeping the stubs.
func (mt *MockTransport) Reset() {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.calls = nil
}

func synthetic(req *http.Request, status int, body []byte) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
}

// BearerToken extracts the token from a recorded call's Authorization
// header, or "" when the call went out unauthenticated.
func (c Call) BearerToken() string {
	return strings.TrimPrefix(c.Header.Get("Authorization"), "Bearer ")
}
