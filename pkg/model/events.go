package model

import (
	"slices"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventChange    EventType = "change"
	EventSelection EventType = "selection"
	EventAbort     EventType = "abort"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	BatchID   string    `json:"batch_id"`
}

// ChangeEvent is published after a transaction that modified the tree commits.
type ChangeEvent struct {
	EventBase
	Operations int `json:"operations"`
	Version    int `json:"version"`
}

// SelectionEvent is published after the selection moved.
type SelectionEvent struct {
	EventBase
	Position Position `json:"-"`
	Path     []int    `json:"path"`
}

// AbortEvent is published after a transaction was rolled back.
type AbortEvent struct {
	EventBase
	Operations int   `json:"operations"`
	Err        error `json:"-"`
}

type listeners[E any] struct {
	next  int
	items []listener[E]
}

type listener[E any] struct {
	id int
	fn func(*E)
}

func (l *listeners[E]) add(fn func(*E)) func() {
	l.next++
	id := l.next
	l.items = append(l.items, listener[E]{id: id, fn: fn})
	return func() {
		l.items = slices.DeleteFunc(l.items, func(it listener[E]) bool { return it.id == id })
	}
}

func (l *listeners[E]) emit(e *E) {
	// Listeners may unsubscribe while being notified.
	for _, it := range slices.Clone(l.items) {
		it.fn(e)
	}
}

// OnChange subscribes to committed changes. The returned function unsubscribes.
func (d *Document) OnChange(fn func(*ChangeEvent)) func() {
	return d.changeListeners.add(fn)
}

// OnSelectionChange subscribes to selection moves. The returned function unsubscribes.
func (d *Document) OnSelectionChange(fn func(*SelectionEvent)) func() {
	return d.selectionListeners.add(fn)
}

// OnAbort subscribes to rolled back transactions. The returned function unsubscribes.
func (d *Document) OnAbort(fn func(*AbortEvent)) func() {
	return d.abortListeners.add(fn)
}
