package inmemory_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/search"
	"github.com/papercomputeco/memseed/pkg/search/inmemory"
)

var _ = Describe("Index", func() {
	var (
		index *inmemory.Index
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		index = inmemory.NewIndex()
		_, err := index.EnsureIndex(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports creation only once", func() {
		created, err := index.EnsureIndex(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())
	})

	It("hides writes until refresh", func() {
		Expect(index.Put(ctx, search.Document{ID: "a", Content: "programming in Go"})).To(Succeed())
		Expect(index.Count(ctx)).To(BeZero())

		Expect(index.Refresh(ctx)).To(Succeed())
		Expect(index.Count(ctx)).To(BeEquivalentTo(1))
		Expect(index.Refreshes()).To(Equal(1))
	})

	It("ranks by term matches over content and tags", func() {
		Expect(index.Put(ctx, search.Document{ID: "a", Content: "cooking pasta", Tags: []string{"life"}})).To(Succeed())
		Expect(index.Put(ctx, search.Document{ID: "b", Content: "programming is programming", Tags: []string{"programming"}})).To(Succeed())
		Expect(index.Put(ctx, search.Document{ID: "c", Content: "learning programming"})).To(Succeed())
		Expect(index.Refresh(ctx)).To(Succeed())

		hits, err := index.Search(ctx, "programming", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(hits).To(HaveLen(2))
		Expect(hits[0].ID).To(Equal("b"))
		Expect(hits[0].Score).To(Equal(3.0))
		Expect(hits[1].ID).To(Equal("c"))
	})

	It("limits results to size", func() {
		for _, id := range []string{"a", "b", "c", "d"} {
			Expect(index.Put(ctx, search.Document{ID: id, Content: "go"})).To(Succeed())
		}
		Expect(index.Refresh(ctx)).To(Succeed())

		hits, err := index.Search(ctx, "go", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(hits).To(HaveLen(2))
	})

	It("injects write failures", func() {
		boom := errors.New("index unavailable")
		index.FailPut = func(doc search.Document) error {
			if doc.ID == "bad" {
				return boom
			}
			return nil
		}

		Expect(index.Put(ctx, search.Document{ID: "bad"})).To(MatchError(boom))
		Expect(index.Put(ctx, search.Document{ID: "good"})).To(Succeed())

		_, ok := index.Get("bad")
		Expect(ok).To(BeFalse())
		_, ok = index.Get("good")
		Expect(ok).To(BeTrue())
	})

	It("reports a missing index after delete", func() {
		Expect(index.DeleteIndex(ctx)).To(Succeed())
		_, err := index.Search(ctx, "go", 3)
		Expect(err).To(MatchError(search.ErrNotFound))
	})
})
