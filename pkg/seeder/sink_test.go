package seeder_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/memory"
	"github.com/papercomputeco/memseed/pkg/search"
	searchmem "github.com/papercomputeco/memseed/pkg/search/inmemory"
	"github.com/papercomputeco/memseed/pkg/seeder"
	storagemem "github.com/papercomputeco/memseed/pkg/storage/inmemory"
)

var _ = Describe("Sink", func() {
	var (
		ctx    context.Context
		driver *storagemem.Driver
		index  *searchmem.Index
		sink   *seeder.Sink
		m      *memory.Persisted
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = storagemem.NewDriver()
		index = searchmem.NewIndex()
		sink = seeder.NewSink(index)

		now := time.Now().UTC()
		m = &memory.Persisted{
			Record: memory.Record{
				Content:    "Premature optimization is the root of all evil.",
				Summary:    "Wisdom from Donald Knuth",
				Tags:       []string{"programming", "wisdom"},
				Importance: 0.9,
			},
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		}
	})

	It("writes both stores on success", func() {
		tx, err := driver.Begin(ctx)
		Expect(err).NotTo(HaveOccurred())

		state, err := sink.Write(ctx, tx, m)
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(Equal(seeder.WriteComplete))

		doc, ok := index.Get(m.ID.String())
		Expect(ok).To(BeTrue())
		Expect(doc.Content).To(Equal(m.Content))

		Expect(tx.Commit(ctx)).To(Succeed())
		Expect(driver.Get(ctx, m.ID)).NotTo(BeNil())
	})

	It("stops after a relational failure", func() {
		boom := errors.New("constraint violation")
		driver.FailInsert = func(*memory.Persisted) error { return boom }

		tx, err := driver.Begin(ctx)
		Expect(err).NotTo(HaveOccurred())

		state, err := sink.Write(ctx, tx, m)
		Expect(state).To(Equal(seeder.WriteNone))
		Expect(err).To(MatchError(boom))

		var writeErr *seeder.WriteError
		Expect(errors.As(err, &writeErr)).To(BeTrue())
		Expect(writeErr.ID).To(Equal(m.ID))
		Expect(writeErr.Error()).To(ContainSubstring("relational insert failed"))

		_, ok := index.Get(m.ID.String())
		Expect(ok).To(BeFalse())
	})

	It("keeps the staged row when the index write fails", func() {
		index.FailPut = func(search.Document) error { return search.ErrIndex }

		tx, err := driver.Begin(ctx)
		Expect(err).NotTo(HaveOccurred())

		state, err := sink.Write(ctx, tx, m)
		Expect(state).To(Equal(seeder.WriteRelationalStaged))
		Expect(err).To(MatchError(search.ErrIndex))
		Expect(err.Error()).To(ContainSubstring("relational staged, index not confirmed"))

		Expect(tx.Commit(ctx)).To(Succeed())
		row, err := driver.Get(ctx, m.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(row.Summary).To(Equal(m.Summary))
	})
})

var _ = Describe("WriteState", func() {
	It("has readable names", func() {
		Expect(seeder.WriteNone.String()).To(Equal("none"))
		Expect(seeder.WriteComplete.String()).To(Equal("complete"))
		Expect(seeder.WriteState(9).String()).To(Equal("WriteState(9)"))
	})
})
