package generator

import (
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/papercomputeco/memseed/pkg/memory"
)

const (
	// SyntheticName is the source name reported for synthetic memories.
	SyntheticName = "synthetic"

	// importanceJitter is the maximum deviation from a template's baseline.
	importanceJitter = 0.15

	maxExtraTags = 2
)

// Synthetic generates memories by filling templates with random vocabulary.
type Synthetic struct {
	rng       *rand.Rand
	templates []Template
	providers Providers
}

// NewSynthetic creates a Synthetic generator over the given templates.
// It fails if any template uses a placeholder with no provider.
func NewSynthetic(rng *rand.Rand, templates []Template, providers Providers) (*Synthetic, error) {
	if len(templates) == 0 {
		return nil, errors.New("synthetic generator needs at least one template")
	}
	if err := providers.Check(templates...); err != nil {
		return nil, err
	}
	for _, t := range templates {
		if len(t.Tags) == 0 {
			return nil, fmt.Errorf("template %q: %w", t.Text, memory.ErrNoTags)
		}
	}

	return &Synthetic{
		rng:       rng,
		templates: templates,
		providers: providers,
	}, nil
}

// NewDefaultSynthetic creates a Synthetic generator with DefaultTemplates and
// DefaultProviders.
func NewDefaultSynthetic(rng *rand.Rand) *Synthetic {
	s, err := NewSynthetic(rng, DefaultTemplates(), DefaultProviders())
	if err != nil {
		// The default vocabulary covers every default placeholder.
		panic(err)
	}
	return s
}

// Generate yields exactly n synthetic records. n <= 0 yields nothing.
func (s *Synthetic) Generate(n int) iter.Seq[memory.Record] {
	return func(yield func(memory.Record) bool) {
		for range max(n, 0) {
			if !yield(s.next()) {
				return
			}
		}
	}
}

func (s *Synthetic) next() memory.Record {
	t := choice(s.rng, s.templates)
	content := t.Fill(s.rng, s.providers)

	jitter := (s.rng.Float64()*2 - 1) * importanceJitter
	importance := memory.ClampImportance(memory.RoundImportance(t.Importance + jitter))

	extra := sampleTags(s.rng, TopicTags, s.rng.IntN(maxExtraTags+1))

	return memory.Record{
		Content:    content,
		Summary:    memory.DeriveSummary(content),
		Tags:       slices.Concat(t.Tags, extra),
		Importance: importance,
	}
}
