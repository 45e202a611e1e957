package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDocumentBytes bounds how much of a remote document is read; anything
// larger than the upload ceiling is not ours.
const maxDocumentBytes = 10 << 20

// Fetcher retrieves the uploaded document by its public URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher(c *http.Client) *HTTPFetcher {
	if c == nil {
		c = http.DefaultClient
	}
	return &HTTPFetcher{Client: c}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.fetch(ctx, url, 0)
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string, backoff int) ([]byte, error) {
	if backoff != 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(backoff) * time.Millisecond):
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if backoff == 0 {
			backoff = 500
		}
		backoff *= 5
		if backoff > 10000 {
			return nil, fmt.Errorf("rate limited: max retries exceeded")
		}
		return f.fetch(ctx, url, backoff)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document fetch returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("document fetch returned empty body")
	}
	return body, nil
}
