package engine

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	Language         string        // target transcript language (BCP 47)
	FetchTimeout     time.Duration // per outbound HTTP request
	VideoTimeout     time.Duration // per batch item, covers metadata + resolve
	BatchConcurrency int           // 1 = strictly sequential
	YouTubeRPS       float64       // outbound pacing, 0 = unlimited
	StaticDir        string        // "" = embedded front end
	DebugVideoID     string        // fixture for the /api/debug self-test
	HTTPClient       *http.Client
	Retry            RetryConfig
	Limiter          *rate.Limiter // nil = unlimited
}

// DefaultLanguage is used when no target language is configured or requested.
const DefaultLanguage = "en"

// DefaultDebugVideoID is a long-lived public video with manual captions.
const DefaultDebugVideoID = "jNQXAC9IVRw"

var cfg = Config{
	Language:         DefaultLanguage,
	FetchTimeout:     15 * time.Second,
	VideoTimeout:     60 * time.Second,
	BatchConcurrency: 1,
	DebugVideoID:     DefaultDebugVideoID,
	HTTPClient:       &http.Client{Timeout: 15 * time.Second},
	Retry:            DefaultRetryConfig,
}

// Cfg exposes the engine configuration for sub-packages (sources, transcripts).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero fields are filled with defaults; a positive YouTubeRPS installs a limiter.
func Init(c Config) {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.VideoTimeout <= 0 {
		c.VideoTimeout = 60 * time.Second
	}
	if c.BatchConcurrency < 1 {
		c.BatchConcurrency = 1
	}
	if c.DebugVideoID == "" {
		c.DebugVideoID = DefaultDebugVideoID
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.FetchTimeout}
	}
	if c.Retry.MaxRetries == 0 && c.Retry.Multiplier == 0 {
		c.Retry = DefaultRetryConfig
	}
	if c.Limiter == nil && c.YouTubeRPS > 0 {
		burst := int(c.YouTubeRPS)
		if burst < 1 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(c.YouTubeRPS), burst)
	}
	cfg = c
	Cfg = &cfg
}
