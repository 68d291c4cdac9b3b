package askcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/docketlab/clausehound/pkg/search"
)

// AskAPI sends a question to a running clausehound API server and returns
// the parsed response. Exported so other commands can reuse it.
func AskAPI(ctx context.Context, apiTarget, question string, k int, lambda float64, mode string) (*search.Output, error) {
	askURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	askURL.Path = "/v1/ask"
	q := askURL.Query()
	q.Set("q", question)
	if k > 0 {
		q.Set("k", strconv.Itoa(k))
	}
	if lambda > 0 {
		q.Set("lambda", strconv.FormatFloat(lambda, 'f', -1, 64))
	}
	if mode != "" {
		q.Set("mode", mode)
	}
	askURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, askURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating ask request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clausehound API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ask request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var output search.Output
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to parse ask response: %w", err)
	}

	return &output, nil
}
