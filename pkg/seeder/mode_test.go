package seeder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/seeder"
)

var _ = Describe("ParseMode", func() {
	DescribeTable("accepts known modes",
		func(in string, want seeder.Mode) {
			got, err := seeder.ParseMode(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("all", "all", seeder.ModeAll),
		Entry("quotes", "quotes", seeder.ModeQuotes),
		Entry("synthetic", "synthetic", seeder.ModeSynthetic),
		Entry("mixed", "mixed", seeder.ModeMixed),
		Entry("upper case", "MIXED", seeder.ModeMixed),
		Entry("empty defaults to mixed", "", seeder.ModeMixed),
	)

	It("rejects unknown modes", func() {
		_, err := seeder.ParseMode("everything")
		Expect(err).To(MatchError(seeder.ErrUnknownMode))
		Expect(err.Error()).To(ContainSubstring(`"everything"`))
	})

	It("lists every mode", func() {
		Expect(seeder.Modes()).To(HaveLen(4))
	})
})
