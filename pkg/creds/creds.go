// Package creds persists the storefront session token.
//
// The token is an opaque bearer credential issued by the backend on login.
// It is the only client-side state that survives the process: everything
// else (user, cart) is refetched. The file lives at ~/.vitrine/credentials.json
// by default and is written with owner-only permissions.
package creds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned by Load when no token has been stored.
var ErrNoToken = errors.New("creds: no stored token")

// credentials is the on-disk layout.
type credentials struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// Store reads and writes the token file. Safe for concurrent use within a
// process; the auth manager is the only writer by convention.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a Store bound to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store is bound to.
func (s *Store) Path() string { return s.path }

// Load returns the stored token, or ErrNoToken when the file is absent.
func (s *Store) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("creds: read %s: %w", s.path, err)
	}

	var c credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("creds: parse %s: %w", s.path, err)
	}
	if c.AccessToken == "" {
		return "", ErrNoToken
	}
	return c.AccessToken, nil
}

// Save writes the token, creating the parent directory as needed.
// The file is 0600: it holds a live credential.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creds: create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(credentials{
		AccessToken: token,
		SavedAt:     time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("creds: marshal: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("creds: write %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the token file. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("creds: remove %s: %w", s.path, err)
	}
	return nil
}

// ─────────────────────────────────────────────
// Token inspection
// ─────────────────────────────────────────────

// ExpiresAt returns the token's exp claim when the token is a JWT carrying
// one. The claims are decoded without signature verification — the backend
// is the authority on validity; this only serves display and pre-flagging.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token is definitely past its exp claim.
// Opaque (non-JWT) tokens and JWTs without exp are never reported expired.
func Expired(token string) bool {
	exp, ok := ExpiresAt(token)
	return ok && time.Now().After(exp)
}
