package seeder

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Result summarizes a seeding run.
type Result struct {
	// Requested is the configured record count.
	Requested int

	Mode Mode

	// Collected is the number of records gathered per source name,
	// before shuffling and truncation.
	Collected map[string]int

	// Skipped counts generated records that failed validation.
	Skipped int

	// Attempted is the number of records the insert loop processed.
	Attempted int

	// Inserted counts records written to both stores.
	Inserted int

	// Errors counts records whose dual write failed at either step.
	Errors int

	// Unindexed lists memories whose row was committed without a
	// confirmed search document.
	Unindexed []uuid.UUID

	Commits int

	Published       int
	PublishFailures int

	// Cleared is set when the run started by clearing existing data.
	Cleared *ClearResult

	Duration time.Duration
}

// ClearResult reports what a bulk clear removed.
type ClearResult struct {
	// Rows is the number of deleted memory_index rows.
	Rows int64

	// IndexCleared is false when the search index could not be dropped
	// and recreated.
	IndexCleared bool
}

// CollectedTotal sums Collected over every source.
func (r *Result) CollectedTotal() int {
	total := 0
	for _, n := range r.Collected {
		total += n
	}
	return total
}

// Sources returns the source names in Collected, sorted.
func (r *Result) Sources() []string {
	return slices.Sorted(maps.Keys(r.Collected))
}
