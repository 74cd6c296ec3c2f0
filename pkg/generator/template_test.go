package generator_test

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/generator"
)

var _ = Describe("Template", func() {
	Describe("Placeholders", func() {
		It("lists distinct names in order of appearance", func() {
			t := generator.Template{Text: "{a} then {b} then {a} and {other_action}"}
			Expect(t.Placeholders()).To(Equal([]string{"a", "b", "other_action"}))
		})

		It("returns nothing for plain text", func() {
			Expect(generator.Template{Text: "no slots here"}.Placeholders()).To(BeEmpty())
		})
	})

	Describe("Fill", func() {
		It("substitutes every placeholder from its provider", func() {
			t := generator.Template{Text: "Set {setting} to {value}."}
			p := generator.Providers{
				"setting": func(*rand.Rand) string { return "TIMEOUT" },
				"value":   func(*rand.Rand) string { return "30s" },
			}
			Expect(t.Fill(newRand(1), p)).To(Equal("Set TIMEOUT to 30s."))
		})

		It("leaves unknown placeholders untouched", func() {
			t := generator.Template{Text: "Hello {name}"}
			Expect(t.Fill(newRand(1), generator.Providers{})).To(Equal("Hello {name}"))
		})

		It("samples OneOf providers from their values", func() {
			t := generator.Template{Text: "{color}"}
			p := generator.Providers{"color": generator.OneOf("red", "green")}
			rng := newRand(7)
			for range 20 {
				Expect(t.Fill(rng, p)).To(BeElementOf("red", "green"))
			}
		})
	})

	Describe("Providers.Check", func() {
		It("passes when all placeholders are covered", func() {
			Expect(generator.DefaultProviders().Check(generator.DefaultTemplates()...)).To(Succeed())
		})

		It("reports the first missing provider", func() {
			t := generator.Template{Text: "Use {tool} with {gadget}"}
			p := generator.Providers{"tool": generator.OneOf("Git")}
			err := p.Check(t)
			Expect(err).To(MatchError(generator.ErrMissingProvider))
			Expect(err.Error()).To(ContainSubstring("{gadget}"))
		})
	})
})
