package eventstream

import "context"

// Publisher publishes memory events to an event stream backend.
type Publisher interface {
	PublishMemory(ctx context.Context, event *MemorySeededEvent) error

	// PublishMemories writes a committed batch in one round trip. It fails
	// as a whole.
	PublishMemories(ctx context.Context, events []*MemorySeededEvent) error
	Close() error
}
