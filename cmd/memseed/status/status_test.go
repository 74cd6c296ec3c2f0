package statuscmder_test

import (
	"bytes"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	memseedcmder "github.com/papercomputeco/memseed/cmd/memseed"
	statuscmder "github.com/papercomputeco/memseed/cmd/memseed/status"
	"github.com/papercomputeco/memseed/pkg/dotdir"
)

var _ = Describe("status command", func() {
	var (
		configDir string
		out       *bytes.Buffer
	)

	execute := func() error {
		cmd := memseedcmder.NewMemseedCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"status", "--config-dir", configDir})
		return cmd.Execute()
	}

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
	})

	It("reports when no run was recorded", func() {
		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("No seed run recorded."))
	})

	It("prints the last run as markdown when not on a terminal", func() {
		state := &dotdir.RunState{
			FinishedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			Mode:       "mixed",
			Backend:    "postgres",
			Index:      "memories",
			Requested:  50,
			Inserted:   49,
			Errors:     1,
			Unindexed:  []string{"0b6f7f36-3f0c-4c2b-8d5e-111111111111"},
		}
		Expect(dotdir.NewManager().SaveRunState(state, configDir)).To(Succeed())

		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("# Last seed run"))
		Expect(out.String()).To(ContainSubstring("| Inserted | 49 of 50 |"))
		Expect(out.String()).To(ContainSubstring("`0b6f7f36-3f0c-4c2b-8d5e-111111111111`"))
	})
})

var _ = Describe("Markdown", func() {
	It("lists at most ten unindexed ids", func() {
		state := &dotdir.RunState{}
		for i := range 12 {
			state.Unindexed = append(state.Unindexed, fmt.Sprintf("id-%02d", i))
		}

		md := statuscmder.Markdown(state)
		Expect(md).To(ContainSubstring("Missing from the search index (12)"))
		Expect(md).To(ContainSubstring("id-09"))
		Expect(md).NotTo(ContainSubstring("id-10"))
		Expect(md).To(ContainSubstring("and 2 more"))
	})
})
