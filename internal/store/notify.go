// Package store holds the global client-side state stores. Stores are plain
// injectable values with subscribe/notify semantics so tests can run against
// isolated instances.
package store

import (
	"sync"
	"time"
)

// Notification severities.
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeWarning = "warning"
	TypeInfo    = "info"
)

// Default display durations per severity.
const (
	SuccessDuration = 5 * time.Second
	ErrorDuration   = 7 * time.Second
	WarningDuration = 6 * time.Second
	InfoDuration    = 5 * time.Second
)

// Notification is a transient user-facing message. A zero Duration makes it
// persistent until manually removed.
type Notification struct {
	ID       int64         `json:"id"`
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// Listener receives the full notification list after every change.
type Listener func([]Notification)

// Notifications is an ordered queue of auto-expiring notifications.
// Append order is display order.
type Notifications struct {
	mu        sync.Mutex
	items     []Notification
	timers    map[int64]*time.Timer
	listeners map[int]Listener
	nextSub   int
	lastID    int64
}

// NewNotifications creates an empty notification store.
func NewNotifications() *Notifications {
	return &Notifications{
		timers:    make(map[int64]*time.Timer),
		listeners: make(map[int]Listener),
	}
}

// Add appends a notification and schedules its removal after its duration.
// Returns the assigned id. IDs are time-derived and strictly monotonic even
// when two notifications land in the same millisecond.
func (n *Notifications) Add(typ, message string, duration time.Duration) int64 {
	n.mu.Lock()

	id := time.Now().UnixMilli()
	if id <= n.lastID {
		id = n.lastID + 1
	}
	n.lastID = id

	n.items = append(n.items, Notification{
		ID:       id,
		Type:     typ,
		Message:  message,
		Duration: duration,
	})

	if duration > 0 {
		n.timers[id] = time.AfterFunc(duration, func() {
			n.Remove(id)
		})
	}

	n.notifyLocked()
	return id
}

// Remove deletes a notification by id. Removing an id that is already gone
// is a no-op: the expiry timer and a manual dismissal may race for the same
// id and both must be safe.
func (n *Notifications) Remove(id int64) {
	n.mu.Lock()

	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}

	found := false
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		n.mu.Unlock()
		return
	}

	n.notifyLocked()
}

// Clear removes all notifications and cancels their timers.
func (n *Notifications) Clear() {
	n.mu.Lock()
	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
	n.items = nil
	n.notifyLocked()
}

// List returns a snapshot of current notifications in display order.
func (n *Notifications) List() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshotLocked()
}

// Subscribe registers a listener and returns an unsubscribe function.
func (n *Notifications) Subscribe(l Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextSub
	n.nextSub++
	n.listeners[id] = l
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Success adds a success notification with the default duration.
func (n *Notifications) Success(message string) int64 {
	return n.Add(TypeSuccess, message, SuccessDuration)
}

// Error adds an error notification with the default duration.
func (n *Notifications) Error(message string) int64 {
	return n.Add(TypeError, message, ErrorDuration)
}

// Warning adds a warning notification with the default duration.
func (n *Notifications) Warning(message string) int64 {
	return n.Add(TypeWarning, message, WarningDuration)
}

// Info adds an info notification with the default duration.
func (n *Notifications) Info(message string) int64 {
	return n.Add(TypeInfo, message, InfoDuration)
}

func (n *Notifications) snapshotLocked() []Notification {
	out := make([]Notification, len(n.items))
	copy(out, n.items)
	return out
}

// notifyLocked snapshots state, releases the lock and invokes listeners.
// Listeners may call back into the store.
func (n *Notifications) notifyLocked() {
	snapshot := n.snapshotLocked()
	listeners := make([]Listener, 0, len(n.listeners))
	for _, l := range n.listeners {
		listeners = append(listeners, l)
	}
	n.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
