package engine

import (
	"errors"
	"fmt"
)

// --- Core transcript types ---

// VideoMetadata describes a video for the transcript header.
// All fields are always populated; see PlaceholderMetadata.
type VideoMetadata struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
	URL     string `json:"url"`
}

// CaptionEntry is a single caption line. Slices of entries are in playback order.
type CaptionEntry struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// UnknownChannel is the channel placeholder when it cannot be scraped.
const UnknownChannel = "Unknown Channel"

// WatchURL returns the canonical watch page URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// PlaceholderMetadata returns the deterministic fallback metadata for a video.
func PlaceholderMetadata(videoID string) VideoMetadata {
	return VideoMetadata{
		Title:   fmt.Sprintf("Video %s", videoID),
		Channel: UnknownChannel,
		URL:     WatchURL(videoID),
	}
}

// --- Sentinel errors shared by the captions source and the resolver ---

var (
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrNoTranscriptFound   = errors.New("no transcript found")
	ErrNotTranslatable     = errors.New("transcript is not translatable")
	ErrVideoUnavailable    = errors.New("video unavailable")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrPoTokenRequired     = errors.New("caption track requires a PoToken")
)
