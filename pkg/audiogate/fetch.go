// ABOUTME: Sound effect fetching over HTTP
// ABOUTME: Default Fetcher used when the gate is not given one
package audiogate

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher loads the bytes of a sound effect
type Fetcher interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Load calls f
func (f FetcherFunc) Load(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches sound effects with a plain GET
type HTTPFetcher struct {
	Client *http.Client
}

// Load fetches url; any non-2xx status is an error
func (h HTTPFetcher) Load(ctx context.Context, url string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to load %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}
