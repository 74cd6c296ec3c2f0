package nop

import (
	"context"

	"github.com/papercomputeco/memseed/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishMemory validates input and otherwise does nothing.
func (p *Publisher) PublishMemory(_ context.Context, event *eventstream.MemorySeededEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	return nil
}

// PublishMemories validates every event and otherwise does nothing.
func (p *Publisher) PublishMemories(_ context.Context, events []*eventstream.MemorySeededEvent) error {
	for _, event := range events {
		if event == nil {
			return eventstream.ErrNilEvent
		}
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
