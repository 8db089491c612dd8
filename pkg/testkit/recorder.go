package testkit

import "sync"

// Notification is one recorded Success/Error delivery.
type Notification struct {
	Level   string // "success" | "error"
	Title   string
	Message string
}

// NotifyRecorder implements notify.Notifier and records every delivery, so
// tests can assert on the notifications an operation produced.
type NotifyRecorder struct {
	mu    sync.Mutex
	notes []Notification
}

// NewNotifyRecorder returns an empty recorder.
func NewNotifyRecorder() *NotifyRecorder {
	return &NotifyRecorder{}
}

func (r *NotifyRecorder) Success(title, message string) {
	r.record("success", title, message)
}

func (r *NotifyRecorder) Error(title, message string) {
	r.record("error", title, message)
}

func (r *NotifyRecorder) record(level, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, Notification{Level: level, Title: title, Message: message})
}

// All returns a copy of the recorded notifications in delivery order.
func (r *NotifyRecorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notes))
	copy(out, r.notes)
	return out
}

// Last returns the most recent notification, or false when none was recorded.
func (r *NotifyRecorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// Titles returns the recorded titles in delivery order.
func (r *NotifyRecorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Title
	}
	return out
}
