package generator_test

import (
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/generator"
	"github.com/papercomputeco/memseed/pkg/memory"
)

var _ = Describe("Synthetic", func() {
	It("yields exactly the requested count", func() {
		s := generator.NewDefaultSynthetic(newRand(1))
		for _, n := range []int{0, 1, 5, 237} {
			Expect(slices.Collect(s.Generate(n))).To(HaveLen(n))
		}
	})

	It("yields nothing for negative counts", func() {
		s := generator.NewDefaultSynthetic(newRand(1))
		Expect(slices.Collect(s.Generate(-3))).To(BeEmpty())
	})

	It("produces valid records with template tags first", func() {
		s := generator.NewDefaultSynthetic(newRand(2))
		templates := generator.DefaultTemplates()

		for r := range s.Generate(500) {
			expectValid(r)
			Expect(r.Content).NotTo(ContainSubstring("{"))

			matched := slices.ContainsFunc(templates, func(t generator.Template) bool {
				return len(r.Tags) >= len(t.Tags) && slices.Equal(r.Tags[:len(t.Tags)], t.Tags)
			})
			Expect(matched).To(BeTrue(), "tags %v do not start with a template tag set", r.Tags)
			Expect(len(r.Tags)).To(BeNumerically("<=", 4))
		}
	})

	It("keeps importance within 0.15 of a template baseline", func() {
		s := generator.NewDefaultSynthetic(newRand(3))
		for r := range s.Generate(300) {
			Expect(r.Importance).To(BeNumerically(">=", 0.35-1e-9))
			Expect(r.Importance).To(BeNumerically("<=", 1.0))
		}
	})

	It("truncates summaries longer than 60 runes", func() {
		s := generator.NewDefaultSynthetic(newRand(4))
		for r := range s.Generate(300) {
			if len([]rune(r.Content)) > memory.SummaryLength {
				Expect(r.Summary).To(HaveSuffix("..."))
				Expect(r.Summary).To(HavePrefix(string([]rune(r.Content)[:memory.SummaryLength])))
			} else {
				Expect(r.Summary).To(Equal(r.Content))
			}
		}
	})

	It("is reproducible for a fixed seed", func() {
		a := slices.Collect(generator.NewDefaultSynthetic(newRand(9)).Generate(25))
		b := slices.Collect(generator.NewDefaultSynthetic(newRand(9)).Generate(25))
		Expect(a).To(Equal(b))
	})

	It("stops when the consumer breaks early", func() {
		s := generator.NewDefaultSynthetic(newRand(5))
		n := 0
		for range s.Generate(100) {
			n++
			if n == 3 {
				break
			}
		}
		Expect(n).To(Equal(3))
	})

	It("rejects templates with unknown placeholders", func() {
		_, err := generator.NewSynthetic(newRand(1),
			[]generator.Template{{Text: "{mystery}", Tags: []string{"x"}, Importance: 0.5}},
			generator.DefaultProviders(),
		)
		Expect(err).To(MatchError(generator.ErrMissingProvider))
	})

	It("rejects templates without tags", func() {
		_, err := generator.NewSynthetic(newRand(1),
			[]generator.Template{{Text: "plain", Importance: 0.5}},
			generator.DefaultProviders(),
		)
		Expect(err).To(MatchError(memory.ErrNoTags))
	})
})
