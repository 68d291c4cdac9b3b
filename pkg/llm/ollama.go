// Package llm provides the optional generative answering backend. The
// client talks to Ollama's chat API and implements answer.Generative, so
// the ask pipeline can swap it in for the extractive rule table. Answers
// stay grounded in the retrieved evidence: the model only ever sees the
// diversified hit texts and is told to quote from them.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docketlab/clausehound/pkg/answer"
	"github.com/docketlab/clausehound/pkg/index"
)

const (
	// DefaultModel is the default Ollama chat model.
	DefaultModel = "llama3.2"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	defaultTimeout = 60 * time.Second
)

const systemPrompt = `You answer questions about a contract using only the numbered clauses provided.
Quote the relevant clause text verbatim. If no clause answers the question, answer exactly NOT_FOUND.
Respond as JSON: {"answer": "...", "citations": ["clause id", ...]}`

// Client is an Ollama-backed generative answerer.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// ClientConfig holds configuration for the Ollama chat client.
type ClientConfig struct {
	// BaseURL is the Ollama API URL. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the chat model to use. Defaults to DefaultModel if empty.
	Model string

	// Timeout bounds each chat call. Defaults to 60s if zero.
	Timeout time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format,omitempty"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// NewClient creates a generative client against Ollama's chat API.
func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Answer implements answer.Generative. The hit texts become the evidence
// block of the prompt; citation ids returned by the model are validated
// against the hit list and invalid ones dropped.
func (c *Client) Answer(ctx context.Context, query string, hits []index.Candidate) (answer.Result, error) {
	var evidence strings.Builder
	valid := make(map[string]bool, len(hits))
	for i, h := range hits {
		fmt.Fprintf(&evidence, "[%d] (id=%s) %s\n", i+1, h.ID, h.Text)
		valid[h.ID] = true
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Clauses:\n" + evidence.String() + "\nQuestion: " + query},
		},
		Format: "json",
		Stream: false,
	})
	if err != nil {
		return answer.Result{}, fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(reqBody))
	if err != nil {
		return answer.Result{}, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return answer.Result{}, fmt.Errorf("chat backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return answer.Result{}, fmt.Errorf("reading chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return answer.Result{}, fmt.Errorf("chat request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return answer.Result{}, fmt.Errorf("parsing chat response: %w", err)
	}

	return parseAnswer(chat.Message.Content, hits, valid), nil
}

// parseAnswer decodes the model's JSON payload. A model that ignored the
// format instruction still yields a usable result: its raw text becomes
// the answer and citations fall back to the containing-hit scan.
func parseAnswer(content string, hits []index.Candidate, valid map[string]bool) answer.Result {
	var out struct {
		Answer    string   `json:"answer"`
		Citations []string `json:"citations"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		out.Answer = strings.TrimSpace(content)
		out.Citations = nil
	}

	if strings.TrimSpace(out.Answer) == "" || out.Answer == answer.NotFoundAnswer {
		return answer.NotFound()
	}

	citations := make([]string, 0, len(out.Citations))
	for _, id := range out.Citations {
		if valid[id] {
			citations = append(citations, id)
		}
	}
	if len(citations) == 0 {
		citations = citeByContainment(out.Answer, hits)
	}

	return answer.Result{Answer: out.Answer, Citations: citations}
}

// citeByContainment attributes the answer to hits whose text contains it,
// falling back to the top hit when nothing matches.
func citeByContainment(ans string, hits []index.Candidate) []string {
	needle := strings.ToLower(strings.Trim(ans, `"' `))
	for _, h := range hits {
		if strings.Contains(strings.ToLower(h.Text), needle) {
			return []string{h.ID}
		}
	}
	if len(hits) > 0 {
		return []string{hits[0].ID}
	}
	return []string{}
}

var _ answer.Generative = (*Client)(nil)
