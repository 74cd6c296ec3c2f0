package memory

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxBackdateDays is the largest whole-day offset applied to CreatedAt.
	MaxBackdateDays = 90

	// MaxBackdateHours is the largest additional hour offset applied to CreatedAt.
	MaxBackdateHours = 23
)

// Normalizer assigns identity and timestamps to generated records.
// All randomness comes from the injected source, so a fixed seed yields the
// same ids and timestamps for the same clock.
type Normalizer struct {
	rng *rand.Rand
	now func() time.Time
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithClock overrides the wall clock used as the backdating reference.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		n.now = now
	}
}

// NewNormalizer creates a Normalizer drawing from rng.
func NewNormalizer(rng *rand.Rand, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		rng: rng,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns r as a Persisted memory with a fresh id and a creation
// time backdated by 0-90 days and 0-23 hours. UpdatedAt equals CreatedAt.
func (n *Normalizer) Normalize(r Record) Persisted {
	if r.Summary == "" {
		r.Summary = DeriveSummary(r.Content)
	}
	r.Importance = ClampImportance(r.Importance)

	days := time.Duration(n.rng.IntN(MaxBackdateDays+1)) * 24 * time.Hour
	hours := time.Duration(n.rng.IntN(MaxBackdateHours+1)) * time.Hour

	// Postgres keeps microseconds; truncating here keeps both stores identical.
	createdAt := n.now().UTC().Add(-days - hours).Truncate(time.Microsecond)

	return Persisted{
		Record:    r,
		ID:        uuid.Must(uuid.NewRandomFromReader(randReader{rng: n.rng})),
		UserID:    nil,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// randReader adapts a *rand.Rand to io.Reader for uuid generation.
type randReader struct {
	rng *rand.Rand
}

func (r randReader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := r.rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}
