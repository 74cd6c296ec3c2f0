package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/memseed/pkg/memory"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeMemorySeeded is emitted after a memory reached both stores.
	EventTypeMemorySeeded = "memseed.memory.seeded"
)

// MemorySeededEvent is a transport-neutral event payload for a seeded memory.
type MemorySeededEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Memory        MemoryMeta  `json:"memory"`
}

// EventSource identifies which generator produced the memory.
type EventSource struct {
	Generator string `json:"generator"`
	Index     string `json:"index,omitempty"`
}

// MemoryMeta carries the indexed fields of the memory, without its content.
type MemoryMeta struct {
	ID              string    `json:"id"`
	Summary         string    `json:"summary"`
	ImportanceScore float64   `json:"importance_score"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewMemorySeededEvent builds the event for a memory written by generator.
func NewMemorySeededEvent(m *memory.Persisted, generator string, emittedAt time.Time) *MemorySeededEvent {
	return &MemorySeededEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeMemorySeeded,
		EventID:       "evt_" + uuid.NewString(),
		EmittedAt:     emittedAt.UTC(),
		Source:        EventSource{Generator: generator},
		Memory: MemoryMeta{
			ID:              m.ID.String(),
			Summary:         m.Summary,
			ImportanceScore: m.Importance,
			Tags:            m.Tags,
			CreatedAt:       m.CreatedAt,
		},
	}
}
