package engine

import (
	"context"
	"net/http"
	"strings"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Re-export stealth retry types for engine consumers.
type RetryConfig = stealth.RetryConfig

var DefaultRetryConfig = stealth.DefaultRetryConfig

// NoRetry makes a single attempt.
var NoRetry = RetryConfig{MaxRetries: 0, Multiplier: 1}

func IsRetryableStatus(code int) bool { return stealth.IsRetryableStatus(code) }

func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	return stealth.RetryDo(ctx, rc, fn)
}

// RetryHTTP wraps stealth.RetryHTTP. A 429 that survives all retries
// is reported as ErrTooManyRequests.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	throttled := false
	resp, err := stealth.RetryHTTP(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		throttled = err == nil && resp.StatusCode == http.StatusTooManyRequests
		return resp, err
	})
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, ErrTooManyRequests
	}
	if err != nil && throttled && ctx.Err() == nil {
		return nil, ErrTooManyRequests
	}
	return resp, err
}

// BrowserHeaders returns desktop-browser headers for watch page and oEmbed requests.
// Accept-Encoding is dropped so net/http negotiates and decodes gzip itself.
func BrowserHeaders() map[string]string {
	h := make(map[string]string)
	for k, v := range stealth.ChromeHeaders() {
		k = strings.ToLower(k)
		if k == "accept-encoding" {
			continue
		}
		h[k] = v
	}
	h["accept-language"] = "en-US,en;q=0.9"
	if h["user-agent"] == "" {
		h["user-agent"] = stealth.RandomUserAgent()
	}
	return h
}
