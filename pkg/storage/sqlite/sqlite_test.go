package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/memory"
	"github.com/papercomputeco/memseed/pkg/storage"
	"github.com/papercomputeco/memseed/pkg/storage/sqlite"
)

func testMemory(content string, tags ...string) *memory.Persisted {
	created := time.Now().UTC().Add(-50 * time.Hour).Truncate(time.Microsecond)
	return &memory.Persisted{
		Record: memory.Record{
			Content:    content,
			Summary:    memory.DeriveSummary(content),
			Tags:       tags,
			Importance: 0.42,
		},
		ID:        uuid.New(),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

var _ = Describe("SQLiteDriver", func() {
	var (
		driver *sqlite.SQLiteDriver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		driver, err = sqlite.NewSQLiteDriver(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.EnsureSchema(ctx)).To(Succeed())
	})

	AfterEach(func() {
		if driver != nil {
			driver.Close()
		}
	})

	Describe("NewSQLiteDriver", func() {
		It("creates a driver with file database", func() {
			tmpDir := GinkgoT().TempDir()
			dbPath := filepath.Join(tmpDir, "test.db")

			s, err := sqlite.NewSQLiteDriver(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()
			Expect(s.EnsureSchema(ctx)).To(Succeed())

			// Verify file was created
			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("EnsureSchema", func() {
		It("is idempotent", func() {
			Expect(driver.EnsureSchema(ctx)).To(Succeed())
		})
	})

	Describe("Insert and Commit", func() {
		It("round-trips every column", func() {
			m := testMemory("SQLite stores tags as JSON text", "database", "sqlite")

			tx, err := driver.Begin(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Insert(ctx, m)).To(Succeed())
			Expect(tx.Commit(ctx)).To(Succeed())

			row, err := driver.Get(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.ID).To(Equal(m.ID))
			Expect(row.UserID).To(BeNil())
			Expect(row.Summary).To(Equal(m.Summary))
			Expect(row.ImportanceScore).To(Equal(0.42))
			Expect(row.Tags).To(Equal([]string{"database", "sqlite"}))
			Expect(row.CreatedAt).To(BeTemporally("==", m.CreatedAt))
			Expect(row.UpdatedAt).To(BeTemporally("==", m.UpdatedAt))
		})

		It("discards rows on rollback", func() {
			tx, err := driver.Begin(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Insert(ctx, testMemory("pending", "testing"))).To(Succeed())
			Expect(tx.Rollback(ctx)).To(Succeed())

			Expect(driver.Count(ctx)).To(BeZero())
		})

		It("keeps the batch alive after a failed insert", func() {
			first := testMemory("first", "testing")
			dup := *first
			second := testMemory("second", "testing")

			tx, err := driver.Begin(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Insert(ctx, first)).To(Succeed())
			Expect(tx.Insert(ctx, &dup)).To(HaveOccurred())
			Expect(tx.Insert(ctx, second)).To(Succeed())
			Expect(tx.Commit(ctx)).To(Succeed())

			Expect(driver.Count(ctx)).To(BeEquivalentTo(2))
		})

		It("stores an empty tag list for nil tags", func() {
			m := testMemory("untagged")

			tx, err := driver.Begin(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Insert(ctx, m)).To(Succeed())
			Expect(tx.Commit(ctx)).To(Succeed())

			row, err := driver.Get(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Tags).To(BeEmpty())
		})

		It("rejects a nil memory", func() {
			tx, err := driver.Begin(ctx)
			Expect(err).NotTo(HaveOccurred())
			defer tx.Rollback(ctx)

			Expect(tx.Insert(ctx, nil)).To(MatchError(storage.ErrNilMemory))
		})

		It("reports a finished transaction", func() {
			tx, err := driver.Begin(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Commit(ctx)).To(Succeed())
			Expect(tx.Rollback(ctx)).To(MatchError(storage.ErrTxDone))
		})
	})

	Describe("DeleteAll", func() {
		It("returns the number of deleted rows", func() {
			tx, err := driver.Begin(ctx)
			Expect(err).NotTo(HaveOccurred())
			for i := range 4 {
				Expect(tx.Insert(ctx, testMemory(fmt.Sprintf("row %d", i), "testing"))).To(Succeed())
			}
			Expect(tx.Commit(ctx)).To(Succeed())

			n, err := driver.DeleteAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeEquivalentTo(4))
			Expect(driver.Count(ctx)).To(BeZero())
		})
	})

	Describe("Get", func() {
		It("returns NotFoundError for an unknown id", func() {
			id := uuid.New()
			_, err := driver.Get(ctx, id)
			Expect(err).To(MatchError(storage.NotFoundError{ID: id.String()}))
		})
	})
})
