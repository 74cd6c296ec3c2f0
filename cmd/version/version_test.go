package versioncmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/papercomputeco/memseed/cmd/version"
	"github.com/papercomputeco/memseed/pkg/utils"
)

var _ = Describe("version command", func() {
	It("prints the build metadata", func() {
		cmd := versioncmder.NewVersionCmd()
		buf := &bytes.Buffer{}
		cmd.SetOut(buf)
		cmd.SetArgs([]string{})

		Expect(cmd.Execute()).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("Version: " + utils.Version))
		Expect(buf.String()).To(ContainSubstring("Sha: " + utils.Sha))
	})
})
