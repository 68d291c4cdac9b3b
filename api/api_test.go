package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/index"
	"github.com/docketlab/clausehound/pkg/search"
	"github.com/docketlab/clausehound/pkg/segment"
)

func testIndex(segs ...segment.Segment) *index.Index {
	idx, err := index.Build(context.Background(), segs, index.Options{Engine: index.EngineSparse})
	Expect(err).NotTo(HaveOccurred())
	return idx
}

func contractIndex() *index.Index {
	return testIndex(
		segment.Segment{ID: "s1", Text: "This Agreement is governed by the laws of the State of New York."},
		segment.Segment{ID: "s2", Text: "Either party may terminate upon 30 days notice."},
	)
}

func newTestServer(handle *index.Handle) *Server {
	return NewServer(Config{
		ListenAddr:    ":0",
		DefaultK:      8,
		DefaultLambda: 0.75,
		DefaultMode:   "extractive",
	}, handle, nil, zap.NewNop())
}

func doGet(s *Server, path string) (*http.Response, []byte) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := s.app.Test(req, -1)
	Expect(err).NotTo(HaveOccurred())
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	resp.Body.Close()
	return resp, body
}

var _ = Describe("Server", func() {
	var server *Server

	BeforeEach(func() {
		server = newTestServer(index.NewHandle(contractIndex()))
	})

	It("responds to ping", func() {
		resp, body := doGet(server, "/ping")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring("pong"))
	})

	Describe("GET /v1/ask", func() {
		It("answers a question with hits, contexts and citations", func() {
			resp, body := doGet(server, "/v1/ask?q="+url.QueryEscape("What is the governing law?"))
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var out search.Output
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out.Query).To(Equal("What is the governing law?"))
			Expect(out.Hits).NotTo(BeEmpty())
			Expect(out.Hits[0].ID).To(Equal("s1"))
			Expect(out.Result.Answer).To(ContainSubstring("laws of the State of New York"))
			Expect(out.Result.Citations).To(Equal([]string{"s1"}))
			Expect(out.Contexts).NotTo(BeEmpty())
		})

		It("requires the q parameter", func() {
			resp, body := doGet(server, "/v1/ask")
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(string(body)).To(ContainSubstring("q parameter is required"))
		})

		It("rejects a non-positive k", func() {
			resp, _ := doGet(server, "/v1/ask?q=law&k=0")
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects a lambda outside [0,1]", func() {
			resp, _ := doGet(server, "/v1/ask?q=law&lambda=1.5")
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects an unknown mode", func() {
			resp, _ := doGet(server, "/v1/ask?q=law&mode=oracle")
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("returns 503 when no index is loaded", func() {
			empty := newTestServer(index.NewHandle(nil))
			resp, body := doGet(empty, "/v1/ask?q=law")
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
			Expect(string(body)).To(ContainSubstring("no index loaded"))
		})
	})

	Describe("GET /v1/index/meta", func() {
		It("reports the active index metadata and version", func() {
			resp, body := doGet(server, "/v1/index/meta")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var out struct {
				Meta    index.Meta `json:"meta"`
				Version uint64     `json:"version"`
			}
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out.Meta.Engine).To(Equal("sparse"))
			Expect(out.Meta.Count).To(Equal(2))
			Expect(out.Version).To(Equal(uint64(1)))
		})
	})
})

var _ = Describe("Watcher", func() {
	It("swaps the handle when the blob on disk is replaced", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "contracts.idx")

		first := contractIndex()
		Expect(first.Save(path)).To(Succeed())

		loaded, err := index.Load(path)
		Expect(err).NotTo(HaveOccurred())
		handle := index.NewHandle(loaded)

		w, err := NewWatcher(path, handle, nil, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = w.Run(ctx)
		}()

		second := testIndex(
			segment.Segment{ID: "a", Text: "first"},
			segment.Segment{ID: "b", Text: "second"},
			segment.Segment{ID: "c", Text: "third"},
		)
		Expect(second.Save(path)).To(Succeed())

		Eventually(func() int {
			idx, _ := handle.Current()
			return idx.Meta.Count
		}, 5*time.Second, 20*time.Millisecond).Should(Equal(3))

		_, version := handle.Current()
		Expect(version).To(BeNumerically(">=", uint64(2)))

		cancel()
		Eventually(done, time.Second).Should(BeClosed())
	})
})
