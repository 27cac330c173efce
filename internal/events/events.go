// Package events carries solver progress notifications to interested observers.
package events

import "time"

// EventType represents the type of event
type EventType string

const (
	// EventRunStarted is emitted when the driver leaves INIT
	EventRunStarted EventType = "run_started"
	// EventIteration is emitted after every completed iteration
	EventIteration EventType = "iteration"
	// EventConverged is emitted when the global error drops to the threshold
	EventConverged EventType = "converged"
	// EventBudgetExhausted is emitted when the iteration cap ends the run
	EventBudgetExhausted EventType = "budget_exhausted"
	// EventInterrupted is emitted when the run context is cancelled between iterations
	EventInterrupted EventType = "interrupted"
)

// Event represents a solver progress event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Iteration int       `json:"iteration"`
	Data      EventData `json:"data,omitempty"`
}

// EventData contains event-specific data
type EventData struct {
	GlobalError float64 `json:"global_error,omitempty"`
	Size        int     `json:"size,omitempty"`
	Threads     int     `json:"threads,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// NewRunStartedEvent creates a run started event
func NewRunStartedEvent(size, threads int) Event {
	return Event{
		Type:      EventRunStarted,
		Timestamp: time.Now(),
		Data: EventData{
			Size:    size,
			Threads: threads,
		},
	}
}

// NewIterationEvent creates an iteration event
func NewIterationEvent(iteration int, globalErr float64) Event {
	return Event{
		Type:      EventIteration,
		Timestamp: time.Now(),
		Iteration: iteration,
		Data: EventData{
			GlobalError: globalErr,
		},
	}
}

// NewConvergedEvent creates a converged event
func NewConvergedEvent(iteration int, globalErr float64) Event {
	return Event{
		Type:      EventConverged,
		Timestamp: time.Now(),
		Iteration: iteration,
		Data: EventData{
			GlobalError: globalErr,
		},
	}
}

// NewBudgetExhaustedEvent creates a budget exhausted event
func NewBudgetExhaustedEvent(iteration int, globalErr float64) Event {
	return Event{
		Type:      EventBudgetExhausted,
		Timestamp: time.Now(),
		Iteration: iteration,
		Data: EventData{
			GlobalError: globalErr,
		},
	}
}

// NewInterruptedEvent creates an interrupted event
func NewInterruptedEvent(iteration int, err error) Event {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	return Event{
		Type:      EventInterrupted,
		Timestamp: time.Now(),
		Iteration: iteration,
		Data: EventData{
			Error: errMsg,
		},
	}
}

// Terminal reports whether the event ends a run
func (e Event) Terminal() bool {
	switch e.Type {
	case EventConverged, EventBudgetExhausted, EventInterrupted:
		return true
	default:
		return false
	}
}
