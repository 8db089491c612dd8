// Package notify delivers user-facing notifications — the storefront
// equivalent of UI toasts. Managers call Success/Error as a side effect of
// their operations; errors still propagate to the caller separately.
//
// Channels:
//   - Terminal: writes to a writer (the CLI's stderr)
//   - Webhook: POSTs JSON to a configured URL, for scripting hooks
//   - Multi: fan-out
//   - Discard: for tests
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shashiranjanraj/vitrine/pkg/logger"
)

// Notifier receives operation outcomes for display.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// ─────────────────────────────────────────────
// Terminal channel
// ─────────────────────────────────────────────

// Terminal prints notifications to a writer.
type Terminal struct {
	W io.Writer
}

// NewTerminal returns a Terminal notifier writing to w.
func NewTerminal(w io.Writer) *Terminal { return &Terminal{W: w} }

func (t *Terminal) Success(title, message string) {
	fmt.Fprintf(t.W, "✅  %s — %s\n", title, message)
}

func (t *Terminal) Error(title, message string) {
	fmt.Fprintf(t.W, "❌  %s — %s\n", title, message)
}

// ─────────────────────────────────────────────
// Webhook channel
// ─────────────────────────────────────────────

// Webhook POSTs each notification as JSON to a URL. Delivery is best-effort:
// failures are logged and never affect the triggering operation.
type Webhook struct {
	URL    string
	client *http.Client
}

// NewWebhook returns a Webhook notifier for url.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		URL:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type webhookPayload struct {
	Level   string `json:"level"` // "success" | "error"
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (w *Webhook) Success(title, message string) { w.post("success", title, message) }
func (w *Webhook) Error(title, message string)   { w.post("error", title, message) }

func (w *Webhook) post(level, title, message string) {
	raw, err := json.Marshal(webhookPayload{Level: level, Title: title, Message: message})
	if err != nil {
		logger.Error("notify: webhook marshal", "error", err)
		return
	}

	resp, err := w.client.Post(w.URL, "application/json", bytes.NewReader(raw))
	if err != nil {
		logger.Warn("notify: webhook post failed", "url", w.URL, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Warn("notify: webhook returned non-2xx", "url", w.URL, "status", resp.StatusCode)
	}
}

// ─────────────────────────────────────────────
// Fan-out and test channels
// ─────────────────────────────────────────────

// Multi forwards each notification to every wrapped notifier.
type Multi []Notifier

func (m Multi) Success(title, message string) {
	for _, n := range m {
		n.Success(title, message)
	}
}

func (m Multi) Error(title, message string) {
	for _, n := range m {
		n.Error(title, message)
	}
}

// Discard drops all notifications.
type Discard struct{}

func (Discard) Success(string, string) {}
func (Discard) Error(string, string)   {}
