package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/anatolykoptev/go-kit/strutil"
)

// maxErrorSnippet bounds response bodies quoted in error messages.
const maxErrorSnippet = 256

// Do sends an outbound request through the shared client.
// Waits on the configured limiter before every attempt and retries per Cfg.Retry.
// body may be nil; it is replayed on each attempt.
func Do(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) (*http.Response, error) {
	return RetryHTTP(ctx, cfg.Retry, func() (*http.Response, error) {
		if cfg.Limiter != nil {
			if err := cfg.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		metrics.YouTubeRequests.Add(1)

		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := cfg.HTTPClient.Do(req)
		if err != nil {
			metrics.YouTubeErrors.Add(1)
		}
		return resp, err
	})
}

// ReadOK reads at most limit bytes of a response body and closes it.
// Non-200 responses are returned as errors quoting a short body snippet.
func ReadOK(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.YouTubeErrors.Add(1)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, Snippet(string(data)))
	}
	return data, nil
}

// Snippet shortens s for log attributes and error messages.
func Snippet(s string) string {
	return strutil.TruncateWith(s, maxErrorSnippet, "...")
}
