package generator_test

import (
	"context"
	"slices"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/generator"
	"github.com/papercomputeco/memseed/pkg/memory"
)

func collect(s generator.Source) []memory.Record {
	GinkgoHelper()
	seq, err := s.Records(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return slices.Collect(seq)
}

var _ = Describe("CuratedSource", func() {
	It("emits fifteen records per curated list", func() {
		rng := newRand(1)
		for _, s := range []*generator.CuratedSource{generator.NewWisdom(rng), generator.NewFacts(rng), generator.NewTips(rng)} {
			Expect(s.Len()).To(Equal(15))
			Expect(collect(s)).To(HaveLen(15))
		}
	})

	It("formats wisdom as attributed quotes", func() {
		records := collect(generator.NewWisdom(newRand(2)))
		for _, r := range records {
			expectValid(r)
			Expect(r.Content).To(HavePrefix(`"`))
			Expect(r.Content).To(MatchRegexp(`^".+" - .+$`))
			Expect(r.Summary).To(HavePrefix("Wisdom from "))
			Expect(r.Tags[len(r.Tags)-1]).To(Equal("wisdom"))
			Expect(r.Importance).To(BeNumerically(">=", 0.6))
			Expect(r.Importance).To(BeNumerically("<=", 0.95))
		}
		Expect(records[1].Content).To(Equal(`"Premature optimization is the root of all evil." - Donald Knuth`))
		Expect(records[1].Tags).To(Equal([]string{"programming", "optimization", "wisdom"}))
	})

	It("truncates fact summaries only beyond fifty runes", func() {
		for _, r := range collect(generator.NewFacts(newRand(3))) {
			expectValid(r)
			Expect(r.Tags).To(ContainElement("fact"))
			if len([]rune(r.Content)) > 50 {
				Expect(r.Summary).To(Equal(string([]rune(r.Content)[:50]) + "..."))
			} else {
				Expect(r.Summary).To(Equal(r.Content))
			}
			Expect(r.Importance).To(BeNumerically(">=", 0.4))
			Expect(r.Importance).To(BeNumerically("<=", 0.8))
		}
	})

	It("prefixes tip summaries", func() {
		for _, r := range collect(generator.NewTips(newRand(4))) {
			expectValid(r)
			Expect(r.Summary).To(HavePrefix("Tip: "))
			Expect(strings.TrimPrefix(r.Summary, "Tip: ")).To(HaveLen(43))
			Expect(r.Tags).To(ContainElement("tip"))
			Expect(r.Importance).To(BeNumerically(">=", 0.5))
			Expect(r.Importance).To(BeNumerically("<=", 0.85))
		}
	})

	It("returns the same content and tags on every call", func() {
		s := generator.NewFacts(newRand(5))
		first, second := collect(s), collect(s)
		for i := range first {
			Expect(second[i].Content).To(Equal(first[i].Content))
			Expect(second[i].Tags).To(Equal(first[i].Tags))
		}
	})

	It("does not let callers mutate the curated tag lists", func() {
		s := generator.NewTips(newRand(6))
		records := collect(s)
		records[0].Tags[0] = "mutated"
		Expect(collect(s)[0].Tags[0]).To(Equal("productivity"))
	})
})
