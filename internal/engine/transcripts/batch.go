package transcripts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
)

// Result status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrInvalidURL is recorded for inputs without a recognizable video id.
var ErrInvalidURL = errors.New("Invalid YouTube URL") //nolint:staticcheck // user-facing sentence

// Result is the outcome for one input URL.
// Failed items carry the input URL as Title.
type Result struct {
	URL        string `json:"url"`
	Status     string `json:"status"`
	VideoID    string `json:"video_id,omitempty"`
	Title      string `json:"title"`
	Channel    string `json:"channel,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    string `json:"details,omitempty"`
}

// MetadataFetcher returns best-effort metadata and never fails.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, videoID string) engine.VideoMetadata
}

// TranscriptResolver resolves the caption entries of a video.
type TranscriptResolver interface {
	Resolve(ctx context.Context, videoID, lang string) ([]engine.CaptionEntry, error)
}

// Processor runs batches of URLs through metadata, resolution and formatting.
type Processor struct {
	meta     MetadataFetcher
	resolver TranscriptResolver
	log      *slog.Logger
}

// NewProcessor wires a processor. *sources.YouTube serves as MetadataFetcher.
func NewProcessor(meta MetadataFetcher, resolver TranscriptResolver, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{meta: meta, resolver: resolver, log: log}
}

// ProcessBatch returns one Result per input URL, in input order, duplicates kept.
// Per-item failures are reported inline. The error is non-nil only when an item
// panicked; the results are then incomplete and must not be served.
func (p *Processor) ProcessBatch(ctx context.Context, urls []string, lang string) ([]Result, error) {
	engine.IncrBatchRequests()
	start := time.Now()

	results := make([]Result, len(urls))
	var g errgroup.Group
	g.SetLimit(engine.Cfg.BatchConcurrency)
	for i, raw := range urls {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					p.log.Error("transcripts: panic", slog.String("url", raw), slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())))
					err = fmt.Errorf("processing %s: %v", raw, r)
				}
			}()
			results[i] = p.ProcessOne(ctx, raw, lang)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.log.Info("transcripts: batch done",
		slog.Int("urls", len(urls)),
		slog.Int("failed", countFailed(results)),
		slog.Duration("took", time.Since(start)))
	return results, nil
}

// ProcessOne handles a single URL: parse, fetch metadata, resolve, format.
func (p *Processor) ProcessOne(ctx context.Context, raw, lang string) Result {
	id, ok := sources.ExtractVideoID(strings.TrimSpace(raw))
	if !ok {
		engine.IncrInvalidURLs()
		return errorResult(raw, ErrInvalidURL)
	}

	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.VideoTimeout)
	defer cancel()

	meta := p.meta.FetchMetadata(ctx, id)
	entries, err := p.resolver.Resolve(ctx, id, lang)
	if err != nil {
		engine.IncrVideoErrors()
		p.log.Warn("transcripts: video failed", slog.String("id", id), slog.Any("error", err))
		return errorResult(raw, err)
	}

	engine.IncrVideosProcessed()
	return Result{
		URL:        raw,
		Status:     StatusSuccess,
		VideoID:    id,
		Title:      meta.Title,
		Channel:    meta.Channel,
		Transcript: Format(entries, meta),
	}
}

func errorResult(raw string, err error) Result {
	r := Result{URL: raw, Status: StatusError, Title: raw, Error: err.Error()}
	var re *ResolutionError
	if errors.As(err, &re) {
		r.Details = re.Details()
	}
	return r
}

func countFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusError {
			n++
		}
	}
	return n
}
