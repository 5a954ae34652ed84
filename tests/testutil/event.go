package testutil

import (
	"context"
	"sync"

	"github.com/structura/backend/internal/domain/shared"
)

// CapturingPublisher records every published domain event for assertions
type CapturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

var _ shared.EventPublisher = (*CapturingPublisher)(nil)

// NewCapturingPublisher creates an empty capturing publisher
func NewCapturingPublisher() *CapturingPublisher {
	return &CapturingPublisher{}
}

// Publish records the events
func (p *CapturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

// Events returns a copy of everything published so far
func (p *CapturingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

// EventsOfType returns the captured events with the given type name
func (p *CapturingPublisher) EventsOfType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
