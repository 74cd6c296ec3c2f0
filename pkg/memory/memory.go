// Package memory defines the records seeded into the OpenMemory stores.
//
// A [Record] is produced by a generator and carries only content and
// metadata. The [Normalizer] turns it into a [Persisted] memory by assigning
// a unique identifier and a backdated creation time. Persisted memories are
// never mutated afterwards.
package memory

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/memseed/pkg/utils"
)

const (
	// MinImportance and MaxImportance bound every importance score.
	MinImportance = 0.1
	MaxImportance = 1.0

	// SummaryLength is the rune count kept when a summary is derived from
	// content.
	SummaryLength = 60
)

// Record is a generated memory that has not been assigned an identity yet.
type Record struct {
	// Content is the full text body. Required.
	Content string `json:"content"`

	// Summary is a short display string. Derived from Content when empty.
	Summary string `json:"summary,omitempty"`

	// Tags are lowercase topic labels. Order is kept and duplicates are allowed.
	Tags []string `json:"tags"`

	// Importance is a score in [MinImportance, MaxImportance].
	Importance float64 `json:"importance"`
}

// Validate reports whether the record carries the required fields.
func (r Record) Validate() error {
	if r.Content == "" {
		return ErrEmptyContent
	}
	if len(r.Tags) == 0 {
		return ErrNoTags
	}
	if r.Importance < MinImportance || r.Importance > MaxImportance || math.IsNaN(r.Importance) {
		return ImportanceRangeError{Value: r.Importance}
	}
	return nil
}

// Persisted is a normalized memory ready to be written to both stores.
type Persisted struct {
	Record

	ID uuid.UUID `json:"id"`

	// UserID is the owner reference. Seeded memories have no owner.
	UserID *string `json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClampImportance limits v to [MinImportance, MaxImportance].
func ClampImportance(v float64) float64 {
	return max(MinImportance, min(MaxImportance, v))
}

// RoundImportance rounds v to two decimal places.
func RoundImportance(v float64) float64 {
	return math.Round(v*100) / 100
}

// DeriveSummary returns content cut to SummaryLength runes with a trailing
// ellipsis when it is longer.
func DeriveSummary(content string) string {
	return utils.Truncate(content, SummaryLength)
}
