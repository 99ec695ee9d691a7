// Package notify models the terminal's alert flow as an explicit FIFO queue
// with a single "currently showing" slot. Alerts raised while one is on
// screen wait their turn instead of clobbering it.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Icon hints for the terminal UI.
const (
	IconSuccess = "check-circle"
	IconError   = "alert-circle"
	IconInfo    = "info"
)

// Alert is one message for the cashier.
type Alert struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAlert builds an alert with a fresh ID.
func NewAlert(title, message, icon string) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}
}

// Queue is a bounded FIFO of pending alerts plus the one currently showing.
// When the queue is full the oldest pending alert is dropped; the showing
// slot is never evicted.
type Queue struct {
	mu      sync.Mutex
	showing *Alert
	pending []Alert
	limit   int
}

// NewQueue creates a queue that holds at most limit pending alerts.
// A limit <= 0 defaults to 16.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 16
	}
	return &Queue{limit: limit}
}

// Push enqueues an alert. If nothing is showing it becomes current
// immediately.
func (q *Queue) Push(a Alert) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.showing == nil {
		q.showing = &a
		return
	}

	if len(q.pending) >= q.limit {
		q.pending = q.pending[1:]
	}
	q.pending = append(q.pending, a)
}

// Current returns the alert on screen, if any.
func (q *Queue) Current() (Alert, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.showing == nil {
		return Alert{}, false
	}
	return *q.showing, true
}

// Dismiss clears the showing slot and promotes the next pending alert.
// Returns the newly showing alert, if any. Dismissing an empty queue is a
// no-op.
func (q *Queue) Dismiss() (Alert, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.showing = nil
	if len(q.pending) == 0 {
		return Alert{}, false
	}

	next := q.pending[0]
	q.pending = q.pending[1:]
	q.showing = &next
	return next, true
}

// Pending returns how many alerts wait behind the current one.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
