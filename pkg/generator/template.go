package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"slices"
)

// ErrMissingProvider is returned by Providers.Check when a template names a
// placeholder that has no provider.
var ErrMissingProvider = errors.New("missing placeholder provider")

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Template is a sentence with {name} placeholders plus the tags and baseline
// importance attached to every memory generated from it.
type Template struct {
	Text       string
	Tags       []string
	Importance float64
}

// Provider returns one value for a placeholder.
type Provider func(rng *rand.Rand) string

// Providers maps placeholder names to their value providers.
type Providers map[string]Provider

// OneOf returns a Provider that samples uniformly from values.
func OneOf(values ...string) Provider {
	return func(rng *rand.Rand) string {
		return choice(rng, values)
	}
}

// Placeholders returns the distinct placeholder names in t, in order of first
// appearance.
func (t Template) Placeholders() []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(t.Text, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Fill substitutes every placeholder in t with a value from its provider.
// Each occurrence is sampled independently. Placeholders without a provider
// are left as-is; use Providers.Check to reject such templates up front.
func (t Template) Fill(rng *rand.Rand, p Providers) string {
	return placeholderPattern.ReplaceAllStringFunc(t.Text, func(match string) string {
		name := match[1 : len(match)-1]
		provide, ok := p[name]
		if !ok {
			return match
		}
		return provide(rng)
	})
}

// Check verifies that every placeholder used by templates has a provider.
func (p Providers) Check(templates ...Template) error {
	for _, t := range templates {
		for _, name := range t.Placeholders() {
			if _, ok := p[name]; !ok {
				return fmt.Errorf("%w: {%s} in %q", ErrMissingProvider, name, t.Text)
			}
		}
	}
	return nil
}
