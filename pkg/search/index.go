// Package search provides the full-text side of the seeder: one document per
// memory in a search index keyed by the memory id.
package search

import (
	"context"
	"time"

	"github.com/papercomputeco/memseed/pkg/memory"
)

// DefaultIndexName is the index seeded memories are written to.
const DefaultIndexName = "memories"

// Document is the indexed representation of a memory.
type Document struct {
	ID              string    `json:"id"`
	UserID          *string   `json:"user_id"`
	Content         string    `json:"content"`
	Summary         string    `json:"summary"`
	ImportanceScore float64   `json:"importance_score"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DocumentFromMemory maps a persisted memory onto its search document.
func DocumentFromMemory(m *memory.Persisted) Document {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return Document{
		ID:              m.ID.String(),
		UserID:          m.UserID,
		Content:         m.Content,
		Summary:         m.Summary,
		ImportanceScore: m.Importance,
		Tags:            tags,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// Hit is a search result with its relevance score.
type Hit struct {
	Document

	// Score is the relevance score reported by the index (higher = more relevant).
	Score float64
}

// Index handles storage and retrieval of memory documents.
type Index interface {
	// EnsureIndex creates the index with its mapping when it does not exist.
	// It reports whether the index was created.
	EnsureIndex(ctx context.Context) (bool, error)

	// Put upserts a document under its ID.
	Put(ctx context.Context, doc Document) error

	// DeleteIndex drops the index. A missing index is not an error.
	DeleteIndex(ctx context.Context) error

	// Refresh makes every previously written document searchable.
	Refresh(ctx context.Context) error

	// Search returns at most size documents matching query over content
	// and tags, best match first.
	Search(ctx context.Context, query string, size int) ([]Hit, error)

	// Count returns the number of searchable documents.
	Count(ctx context.Context) (int64, error)

	// Close releases any resources held by the index.
	Close() error
}
