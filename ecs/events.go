package ecs

import (
	"github.com/milk9111/stride/footik"
	"github.com/milk9111/stride/locomotion"
)

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventFootPhase = "foot_phase"
	EventAction    = "action"
)

// FootPhaseEvent is emitted when a foot's contact phase changes.
type FootPhaseEvent struct {
	Entity Entity
	Foot   footik.Foot
	From   footik.FootPhase
	To     footik.FootPhase
}

// ActionEvent is emitted when the action layer changes fade state. Clip is
// empty once the layer has returned to ActionNone.
type ActionEvent struct {
	Entity Entity
	Clip   string
	From   locomotion.ActionState
	To     locomotion.ActionState
}

// EventQueue is a simple FIFO queue, cleared at the end of each world update.
type EventQueue struct {
	items []Event
}

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

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
