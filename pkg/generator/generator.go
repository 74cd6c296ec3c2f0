// Package generator produces candidate memory records for seeding.
//
// There are three kinds of generators:
//
//   - [QuoteSource] downloads quote-like objects from a remote JSON feed.
//   - [CuratedSource] emits a fixed in-process list (wisdom, facts, tips).
//   - [Synthetic] fills sentence templates with randomly chosen vocabulary.
//
// Every generator draws its randomness from an injected *rand.Rand, so a fixed
// seed reproduces the same output. Output is exposed as a lazy iter.Seq.
package generator

import (
	"context"
	"iter"
	"math/rand/v2"

	"github.com/papercomputeco/memseed/pkg/memory"
)

// Source is a named producer of memory records.
type Source interface {
	// Name identifies the source in logs and run results.
	Name() string

	// Records returns the source's records. Sources that need I/O do it
	// before returning, so a nil error means the sequence is ready to range.
	Records(ctx context.Context) (iter.Seq[memory.Record], error)
}

// TopicTags are the extra labels randomly attached to quotes and synthetic
// memories.
var TopicTags = []string{
	"science", "history", "technology", "philosophy", "life",
	"wisdom", "nature", "art", "business", "education",
}

// sampleTags returns k distinct tags from pool in random order.
func sampleTags(rng *rand.Rand, pool []string, k int) []string {
	k = min(k, len(pool))
	perm := rng.Perm(len(pool))

	tags := make([]string, 0, k)
	for _, i := range perm[:k] {
		tags = append(tags, pool[i])
	}
	return tags
}

// uniformImportance draws from [lo, hi] and rounds to two decimals.
func uniformImportance(rng *rand.Rand, lo, hi float64) float64 {
	return memory.RoundImportance(lo + rng.Float64()*(hi-lo))
}

// choice returns a uniformly chosen element of items.
func choice[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
