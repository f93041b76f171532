package mocks

import (
	"context"
	"sync"

	"github.com/0xsj/overwatch-follows/internal/domain/event"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/messaging"
)

// EventPublisher is a mock implementation of messaging.EventPublisher.
type EventPublisher struct {
	mu sync.RWMutex

	// Published events
	events []event.Event

	// Events by type for easier querying
	byType map[string][]event.Event

	// Events by topic
	byTopic map[string][]event.Event

	// Call tracking
	Calls struct {
		Publish    int
		PublishAll int
	}

	// Error injection
	Errors struct {
		Publish    error
		PublishAll error
	}
}

// NewEventPublisher creates a new mock EventPublisher.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		events:  make([]event.Event, 0),
		byType:  make(map[string][]event.Event),
		byTopic: make(map[string][]event.Event),
	}
}

func (m *EventPublisher) Publish(ctx context.Context, evt event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Publish++

	if m.Errors.Publish != nil {
		return m.Errors.Publish
	}

	m.recordEvent(evt)
	return nil
}

func (m *EventPublisher) PublishAll(ctx context.Context, events []event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.PublishAll++

	if m.Errors.PublishAll != nil {
		return m.Errors.PublishAll
	}

	for _, evt := range events {
		m.recordEvent(evt)
	}
	return nil
}

// recordEvent stores the event in all indexes (must hold lock).
func (m *EventPublisher) recordEvent(evt event.Event) {
	m.events = append(m.events, evt)
	m.byType[evt.EventType()] = append(m.byType[evt.EventType()], evt)

	topic := messaging.TopicForEvent(evt)
	m.byTopic[topic] = append(m.byTopic[topic], evt)
}

// --- Query Methods ---

// Events returns all published events.
func (m *EventPublisher) Events() []event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]event.Event, len(m.events))
	copy(result, m.events)
	return result
}

// EventCount returns the total number of published events.
func (m *EventPublisher) EventCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// EventsByType returns all events of a specific type.
func (m *EventPublisher) EventsByType(eventType string) []event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.byType[eventType]
	result := make([]event.Event, len(events))
	copy(result, events)
	return result
}

// EventsByTopic returns all events published to a specific topic.
func (m *EventPublisher) EventsByTopic(topic string) []event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.byTopic[topic]
	result := make([]event.Event, len(events))
	copy(result, events)
	return result
}

// LastEvent returns the most recently published event, or nil if none.
func (m *EventPublisher) LastEvent() event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.events) == 0 {
		return nil
	}
	return m.events[len(m.events)-1]
}

// LastEventOfType returns the most recent event of a specific type, or nil if none.
func (m *EventPublisher) LastEventOfType(eventType string) event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.byType[eventType]
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

// HasEvent checks if any event of the given type was published.
func (m *EventPublisher) HasEvent(eventType string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.byType[eventType]) > 0
}

// HasEventCount checks if exactly n events of the given type were published.
func (m *EventPublisher) HasEventCount(eventType string, n int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.byType[eventType]) == n
}

// --- Typed Getters ---

// LookupSucceededEvents returns all LookupSucceeded events.
func (m *EventPublisher) LookupSucceededEvents() []event.LookupSucceeded {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.byType[event.EventTypeLookupSucceeded]
	result := make([]event.LookupSucceeded, 0, len(events))
	for _, evt := range events {
		if typed, ok := evt.(event.LookupSucceeded); ok {
			result = append(result, typed)
		}
	}
	return result
}

// LookupFailedEvents returns all LookupFailed events.
func (m *EventPublisher) LookupFailedEvents() []event.LookupFailed {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.byType[event.EventTypeLookupFailed]
	result := make([]event.LookupFailed, 0, len(events))
	for _, evt := range events {
		if typed, ok := evt.(event.LookupFailed); ok {
			result = append(result, typed)
		}
	}
	return result
}

// --- Reset ---

// Reset clears all events and call counts.
func (m *EventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = make([]event.Event, 0)
	m.byType = make(map[string][]event.Event)
	m.byTopic = make(map[string][]event.Event)
	m.Calls = struct {
		Publish    int
		PublishAll int
	}{}
	m.Errors = struct {
		Publish    error
		PublishAll error
	}{}
}
