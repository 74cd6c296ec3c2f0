package searchcmder_test

import (
	"bytes"
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	memseedcmder "github.com/papercomputeco/memseed/cmd/memseed"
	"github.com/papercomputeco/memseed/pkg/search"
	testutils "github.com/papercomputeco/memseed/pkg/utils/test"
)

var _ = Describe("search command", func() {
	var (
		openSearch *testutils.OpenSearchServer
		out        *bytes.Buffer
	)

	execute := func(args ...string) error {
		cmd := memseedcmder.NewMemseedCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(append([]string{"search", "--config-dir", GinkgoT().TempDir(), "--opensearch-url", openSearch.URL}, args...))
		return cmd.Execute()
	}

	BeforeEach(func() {
		out = &bytes.Buffer{}
		openSearch = testutils.NewOpenSearchServer()
		DeferCleanup(openSearch.Close)
	})

	Context("with seeded documents", func() {
		BeforeEach(func() {
			ctx := context.Background()
			idx := openSearch.Index("memories")
			_, err := idx.EnsureIndex(ctx)
			Expect(err).NotTo(HaveOccurred())

			docs := []search.Document{
				{ID: "a", Content: "Refactored the programming guide", ImportanceScore: 0.8, Tags: []string{"programming"}},
				{ID: "b", Content: "Programming in Go is fun", ImportanceScore: 0.5, Tags: []string{"tip"}},
				{ID: "c", Content: "Brewed coffee", ImportanceScore: 0.2, Tags: []string{"personal"}},
			}
			for _, d := range docs {
				d.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
				Expect(idx.Put(ctx, d)).To(Succeed())
			}
			Expect(idx.Refresh(ctx)).To(Succeed())
		})

		It("prints ranked results", func() {
			Expect(execute("programming")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Search Results for:"))
			Expect(out.String()).To(ContainSubstring("[0.8]"))
			Expect(out.String()).To(ContainSubstring("#2"))
			Expect(out.String()).NotTo(ContainSubstring("Brewed coffee"))
		})

		It("prints only ids with --quiet", func() {
			Expect(execute("programming", "--quiet", "--top", "1")).To(Succeed())
			Expect(strings.TrimSpace(out.String())).To(Equal("a"))
		})

		It("reports when nothing matches", func() {
			Expect(execute("kubernetes")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("No results found."))
		})
	})

	It("explains a missing index", func() {
		err := execute("programming", "--index", "nope")
		Expect(err).To(MatchError(ContainSubstring(`index "nope" does not exist`)))
	})

	It("requires a query", func() {
		Expect(execute()).To(HaveOccurred())
	})
})
