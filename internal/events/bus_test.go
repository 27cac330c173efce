package events

import (
	"errors"
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("expected non-nil bus")
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.SubscriberCount())
	}
}

func TestBusSubscribeUnsubscribe(t *testing.T) {
	bus := NewBus()

	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	if bus.SubscriberCount() != 2 {
		t.Errorf("expected 2 subscribers, got %d", bus.SubscriberCount())
	}

	bus.Unsubscribe(ch1)
	if bus.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", bus.SubscriberCount())
	}
	if _, ok := <-ch1; ok {
		t.Error("expected unsubscribed channel to be closed")
	}

	bus.Unsubscribe(ch2)
	if bus.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.SubscriberCount())
	}
}

func TestBusPublish(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()

	bus.Publish(NewIterationEvent(3, 0.25))

	select {
	case received := <-ch:
		if received.Type != EventIteration {
			t.Errorf("expected type %s, got %s", EventIteration, received.Type)
		}
		if received.Iteration != 3 {
			t.Errorf("expected iteration 3, got %d", received.Iteration)
		}
		if received.Data.GlobalError != 0.25 {
			t.Errorf("expected error 0.25, got %v", received.Data.GlobalError)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for event")
	}
}

func TestBusPublishMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()

	bus.Publish(NewConvergedEvent(10, 1e-6))

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			if received.Type != EventConverged {
				t.Errorf("subscriber %d: expected type %s, got %s", i, EventConverged, received.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestBusPublishNonBlocking(t *testing.T) {
	bus := NewBusWithBuffer(1)
	ch := bus.Subscribe()

	bus.Publish(NewIterationEvent(1, 1))
	bus.Publish(NewIterationEvent(2, 1))
	bus.Publish(NewIterationEvent(3, 1))

	select {
	case got := <-ch:
		if got.Iteration != 1 {
			t.Errorf("expected first event to survive, got iteration %d", got.Iteration)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for first event")
	}

	if bus.Dropped() != 2 {
		t.Errorf("expected 2 dropped deliveries, got %d", bus.Dropped())
	}
}

func TestBusClose(t *testing.T) {
	bus := NewBus()

	ch := bus.Subscribe()
	bus.Close()

	if bus.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", bus.SubscriberCount())
	}

	_, ok := <-ch
	if ok {
		t.Error("expected channel to be closed")
	}
}

func TestEventCreation(t *testing.T) {
	t.Run("RunStarted", func(t *testing.T) {
		event := NewRunStartedEvent(50, 4)
		if event.Type != EventRunStarted {
			t.Errorf("expected %s, got %s", EventRunStarted, event.Type)
		}
		if event.Data.Size != 50 || event.Data.Threads != 4 {
			t.Errorf("unexpected data: %+v", event.Data)
		}
		if event.Terminal() {
			t.Error("run started must not be terminal")
		}
	})

	t.Run("Terminal", func(t *testing.T) {
		for _, e := range []Event{
			NewConvergedEvent(5, 1e-6),
			NewBudgetExhaustedEvent(3001, 1e-3),
			NewInterruptedEvent(7, errors.New("context canceled")),
		} {
			if !e.Terminal() {
				t.Errorf("%s should be terminal", e.Type)
			}
		}
		if NewIterationEvent(1, 1).Terminal() {
			t.Error("iteration must not be terminal")
		}
	})

	t.Run("Interrupted", func(t *testing.T) {
		event := NewInterruptedEvent(7, errors.New("context canceled"))
		if event.Data.Error != "context canceled" {
			t.Errorf("expected error message, got %q", event.Data.Error)
		}
		if NewInterruptedEvent(1, nil).Data.Error != "" {
			t.Error("expected empty error for nil")
		}
	})
}
