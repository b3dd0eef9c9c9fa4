// internal/tile/fetcher.go - HTTP tile fetching
package tile

import (
	"fmt"
	"io"
	"net/http"

	"ptolemy/internal"
	"ptolemy/internal/config"
)

// HTTPFetcher implements the Fetcher interface using HTTP requests
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a new HTTP-based tile fetcher
func NewHTTPFetcher(cfg *config.NetworkConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

// Fetch performs a single GET for a tile and returns the body bytes.
// Any transport failure or non-200 status is reported as a fetch error;
// callers record it per tile and move on rather than aborting the batch.
func (f *HTTPFetcher) Fetch(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFetch,
			fmt.Sprintf("failed to build request for %s", url), err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFetch,
			fmt.Sprintf("request failed for %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, internal.NewError(internal.ErrorCodeFetch,
			fmt.Sprintf("HTTP %d fetching %s", resp.StatusCode, url), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFetch,
			fmt.Sprintf("failed to read response body for %s", url), err)
	}
	return data, nil
}
