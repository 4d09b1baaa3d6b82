package eventsvc

import (
	"context"
	"sync"

	"github.com/simtahfidz/backend/core"
)

// Event is a published message, as kept by the RecordingPublisher.
type Event struct {
	RoutingKey string
	Payload    interface{}
}

// RecordingPublisher keeps the events in memory instead of sending them.
// It backs the API when AMQP is disabled, and the tests.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
	logger core.Logger
}

var _ core.EventPublisher = (*RecordingPublisher)(nil) // interface compliance check

func NewRecordingPublisher(logger core.Logger) *RecordingPublisher {
	return &RecordingPublisher{logger: logger}
}

func (p *RecordingPublisher) Publish(_ context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	p.events = append(p.events, Event{RoutingKey: routingKey, Payload: payload})
	p.mu.Unlock()
	p.logger.Debug("event " + routingKey)
	return nil
}

// Events returns a copy of the events published so far.
func (p *RecordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	events := make([]Event, len(p.events))
	copy(events, p.events)
	return events
}

// Keys returns the routing keys of the events published so far, in order.
func (p *RecordingPublisher) Keys() []string {
	events := p.Events()
	keys := make([]string, len(events))
	for i, e := range events {
		keys[i] = e.RoutingKey
	}
	return keys
}

func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}

func (p *RecordingPublisher) Close() error {
	return nil
}
