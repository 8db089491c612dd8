package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	defaultStoreAPIURL = "http://localhost:8000"
	defaultAppEnv      = "local"
	defaultHTTPTimeout = "0" // 0 = no timeout
	credentialsFile    = "credentials.json"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads configuration once from config/app.json and .env.
// Process environment variables override both.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"STORE_API_URL":      defaultStoreAPIURL,
		"APP_ENV":            defaultAppEnv,
		"HTTP_TIMEOUT":       defaultHTTPTimeout,
		"CREDENTIALS_FILE":   "",
		"NOTIFY_WEBHOOK_URL": "",
	}
}

// StoreAPIURL returns the base URL of the storefront backend, without a
// trailing slash.
func StoreAPIURL() string {
	_ = Load()
	return strings.TrimRight(get("STORE_API_URL", defaultStoreAPIURL), "/")
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// HTTPTimeout returns the per-request timeout for backend calls.
// Zero means no timeout. Accepts a Go duration ("5s") or bare seconds ("5").
func HTTPTimeout() time.Duration {
	_ = Load()

	raw := get("HTTP_TIMEOUT", defaultHTTPTimeout)
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	var secs int
	if _, err := fmt.Sscanf(raw, "%d", &secs); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// CredentialsPath returns the file where the session token is persisted.
// Defaults to ~/.vitrine/credentials.json.
func CredentialsPath() string {
	_ = Load()

	if p := get("CREDENTIALS_FILE", ""); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".vitrine", credentialsFile)
	}
	return filepath.Join(home, ".vitrine", credentialsFile)
}

// NotifyWebhookURL returns the optional webhook notification endpoint.
// Empty means the webhook channel is disabled.
func NotifyWebhookURL() string {
	_ = Load()
	return get("NOTIFY_WEBHOOK_URL", "")
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	// Real environment wins: the CLI is routinely pointed at another store
	// with a one-off override (STORE_API_URL=... vitrine products).
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
