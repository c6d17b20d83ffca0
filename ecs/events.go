package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventRoomEntered = "room_entered"
	EventSelectBegin = "select_begin"
	EventSelectEnd   = "select_end"
	EventDoorCommand = "door_command"
	EventPanelShown  = "panel_shown"
	EventTimerFired  = "timer_fired"
)

// EventQueue is a simple FIFO queue. Systems push; the host drains it once
// per tick into its session transcript.
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

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
