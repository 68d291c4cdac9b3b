package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docketlab/clausehound/pkg/dotdir"
)

var _ = Describe("Manager", func() {
	var m *dotdir.Manager

	BeforeEach(func() {
		m = dotdir.NewManager()
	})

	Describe("Target", func() {
		It("uses the override directory when provided", func() {
			override := filepath.Join(GinkgoT().TempDir(), "custom")
			target, err := m.Target(override)
			Expect(err).NotTo(HaveOccurred())
			Expect(target).To(Equal(override))

			info, err := os.Stat(target)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("creates the override directory if missing", func() {
			override := filepath.Join(GinkgoT().TempDir(), "nested", "dir")
			target, err := m.Target(override)
			Expect(err).NotTo(HaveOccurred())
			Expect(target).To(BeADirectory())
		})

		It("prefers a local .clausehound directory over home", func() {
			tmp := GinkgoT().TempDir()
			Expect(os.MkdirAll(filepath.Join(tmp, ".clausehound"), 0o755)).To(Succeed())

			cwd, err := os.Getwd()
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Chdir(tmp)).To(Succeed())
			DeferCleanup(func() { _ = os.Chdir(cwd) })

			target, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Base(target)).To(Equal(".clausehound"))
		})
	})
})
