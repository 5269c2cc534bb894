package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	BatchRequests       atomic.Int64
	VideosProcessed     atomic.Int64
	VideoErrors         atomic.Int64
	InvalidURLs         atomic.Int64
	YouTubeRequests     atomic.Int64
	YouTubeErrors       atomic.Int64
	MetadataFallbacks   atomic.Int64
	TranscriptsResolved atomic.Int64
	TranscriptsDisabled atomic.Int64
	TranscriptsNotFound atomic.Int64
	TranscriptsFailed   atomic.Int64
	StrategyDirect      atomic.Int64
	StrategyLanguage    atomic.Int64
	StrategyEnumerated  atomic.Int64
	StrategyTranslated  atomic.Int64
	StrategyPanel       atomic.Int64
}

var metricKeys = []string{
	"batch_requests", "videos_processed", "video_errors", "invalid_urls",
	"youtube_requests", "youtube_errors",
	"metadata_fallbacks",
	"transcripts_resolved", "transcripts_disabled", "transcripts_not_found", "transcripts_failed",
	"strategy_direct", "strategy_language", "strategy_enumerated", "strategy_translated", "strategy_panel",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"batch_requests":        metrics.BatchRequests.Load(),
		"videos_processed":      metrics.VideosProcessed.Load(),
		"video_errors":          metrics.VideoErrors.Load(),
		"invalid_urls":          metrics.InvalidURLs.Load(),
		"youtube_requests":      metrics.YouTubeRequests.Load(),
		"youtube_errors":        metrics.YouTubeErrors.Load(),
		"metadata_fallbacks":    metrics.MetadataFallbacks.Load(),
		"transcripts_resolved":  metrics.TranscriptsResolved.Load(),
		"transcripts_disabled":  metrics.TranscriptsDisabled.Load(),
		"transcripts_not_found": metrics.TranscriptsNotFound.Load(),
		"transcripts_failed":    metrics.TranscriptsFailed.Load(),
		"strategy_direct":       metrics.StrategyDirect.Load(),
		"strategy_language":     metrics.StrategyLanguage.Load(),
		"strategy_enumerated":   metrics.StrategyEnumerated.Load(),
		"strategy_translated":   metrics.StrategyTranslated.Load(),
		"strategy_panel":        metrics.StrategyPanel.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the transcripts sub-package.
func IncrBatchRequests()     { metrics.BatchRequests.Add(1) }
func IncrVideosProcessed()   { metrics.VideosProcessed.Add(1) }
func IncrVideoErrors()       { metrics.VideoErrors.Add(1) }
func IncrInvalidURLs()       { metrics.InvalidURLs.Add(1) }
func IncrMetadataFallbacks() { metrics.MetadataFallbacks.Add(1) }

// Resolution outcomes.
func IncrTranscriptsResolved() { metrics.TranscriptsResolved.Add(1) }
func IncrTranscriptsDisabled() { metrics.TranscriptsDisabled.Add(1) }
func IncrTranscriptsNotFound() { metrics.TranscriptsNotFound.Add(1) }
func IncrTranscriptsFailed()   { metrics.TranscriptsFailed.Add(1) }

// IncrStrategy counts which resolver step produced the transcript.
func IncrStrategy(name string) {
	switch {
	case name == "direct":
		metrics.StrategyDirect.Add(1)
	case name == "direct_language":
		metrics.StrategyLanguage.Add(1)
	case strings.HasSuffix(name, "_translated"):
		metrics.StrategyTranslated.Add(1)
	case name == "engagement_panel":
		metrics.StrategyPanel.Add(1)
	default:
		metrics.StrategyEnumerated.Add(1)
	}
}
