package ecs

type EventKind string

const (
	EventBodyAttached EventKind = "body_attached"
	EventBodyDetached EventKind = "body_detached"
)

// Event records a change to an entity's physics state. Name is the name the
// body was requested under.
type Event struct {
	Kind   EventKind
	Entity Entity
	Name   string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
