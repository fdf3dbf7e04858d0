package ecs

// EventType names an event payload.
type EventType string

// Event is a generic ECS event payload. Events live for one scheduler tick.
type Event struct {
	Type EventType
	Data any
}

// EventQueue is a FIFO shared by the systems of one tick.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns the events of type t and keeps the rest queued.
func (q *EventQueue) Drain(t EventType) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == t {
			out = append(out, evt)
		} else {
			kept = append(kept, evt)
		}
	}
	q.items = kept
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
