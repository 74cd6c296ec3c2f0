package testutils_test

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/logger"
	"github.com/papercomputeco/memseed/pkg/search"
	"github.com/papercomputeco/memseed/pkg/search/opensearch"
	testutils "github.com/papercomputeco/memseed/pkg/utils/test"
)

var _ = Describe("OpenSearchServer", func() {
	var (
		ctx    context.Context
		server *testutils.OpenSearchServer
		driver *opensearch.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = testutils.NewOpenSearchServer()
		DeferCleanup(server.Close)

		var err error
		driver, err = opensearch.NewDriver(opensearch.Config{URL: server.URL}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	It("serves the index lifecycle used by the opensearch driver", func() {
		created, err := driver.EnsureIndex(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		created, err = driver.EnsureIndex(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())

		doc := search.Document{
			ID:              "a1",
			Content:         "Go channels make concurrency approachable",
			Summary:         "Go channels make concurrency approachable",
			ImportanceScore: 0.7,
			Tags:            []string{"programming"},
			CreatedAt:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		Expect(driver.Put(ctx, doc)).To(Succeed())

		n, err := driver.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())

		Expect(driver.Refresh(ctx)).To(Succeed())

		hits, err := driver.Search(ctx, "programming", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(hits).To(HaveLen(1))
		Expect(hits[0].ID).To(Equal("a1"))
		Expect(hits[0].ImportanceScore).To(Equal(0.7))

		Expect(driver.DeleteIndex(ctx)).To(Succeed())
		Expect(server.Index("memories").Exists()).To(BeFalse())
	})

	It("answers 500 to document writes when FailPuts is set", func() {
		server.FailPuts = true

		err := driver.Put(ctx, search.Document{ID: "x"})
		Expect(err).To(MatchError(search.ErrIndex))

		var statusErr *search.StatusError
		Expect(err).To(BeAssignableToTypeOf(statusErr))
	})
})

var _ = Describe("NewQuoteServer", func() {
	It("answers with the configured status", func() {
		server := testutils.NewQuoteServer(http.StatusInternalServerError, "boom")
		defer server.Close()

		resp, err := http.Get(server.URL)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
	})
})
