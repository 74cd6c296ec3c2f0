package storageutils_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/memseed/pkg/logger"
	"github.com/papercomputeco/memseed/pkg/storage/sqlite"
	storageutils "github.com/papercomputeco/memseed/pkg/storage/utils"
)

var _ = Describe("NewDriver", func() {
	ctx := context.Background()

	It("prefers SQLite when a path is set", func() {
		path := filepath.Join(GinkgoT().TempDir(), "memseed.db")
		driver, err := storageutils.NewDriver(ctx, storageutils.Options{
			SQLitePath:  path,
			PostgresURL: "postgres://unused",
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer driver.Close()

		Expect(driver).To(BeAssignableToTypeOf(&sqlite.SQLiteDriver{}))
		Expect(driver.Count(ctx)).To(BeZero())
	})

	It("fails without a backend", func() {
		_, err := storageutils.NewDriver(ctx, storageutils.Options{}, logger.Nop())
		Expect(err).To(MatchError(storageutils.ErrNoBackend))
	})

	It("fails for an unreachable PostgreSQL server", func() {
		_, err := storageutils.NewDriver(ctx, storageutils.Options{
			PostgresURL: "host=invalid port=9999 user=bad dbname=bad sslmode=disable connect_timeout=1",
		}, logger.Nop())
		Expect(err).To(HaveOccurred())
	})
})
