package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/logger"
)

var _ = Describe("Logger", func() {
	Describe("NewLoggerWithWriters", func() {
		It("writes info output to the provided writer", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &buf)
			l.Info("hello", zap.String("key", "value"))
			_ = l.Sync()

			output := buf.String()
			Expect(output).To(ContainSubstring("hello"))
			Expect(output).To(ContainSubstring("value"))
		})

		It("suppresses debug output by default", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &buf)
			l.Debug("quiet")
			_ = l.Sync()

			Expect(buf.String()).NotTo(ContainSubstring("quiet"))
		})

		It("emits debug output when debug is enabled", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(true, &buf)
			l.Debug("loud")
			_ = l.Sync()

			Expect(buf.String()).To(ContainSubstring("loud"))
		})

		It("fans out to multiple writers", func() {
			var a, b bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &a, &b)
			l.Info("both")
			_ = l.Sync()

			Expect(a.String()).To(ContainSubstring("both"))
			Expect(b.String()).To(ContainSubstring("both"))
		})
	})

	Describe("NewJSONLogger", func() {
		It("emits one JSON object per line", func() {
			var buf bytes.Buffer
			l := logger.NewJSONLogger(false, &buf)
			l.Info("structured", zap.Int("count", 3))
			_ = l.Sync()

			line := strings.TrimSpace(buf.String())
			var record map[string]any
			Expect(json.Unmarshal([]byte(line), &record)).To(Succeed())
			Expect(record["msg"]).To(Equal("structured"))
			Expect(record["count"]).To(BeNumerically("==", 3))
		})
	})
})
