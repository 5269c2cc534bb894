package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// YouTube fetches caption tracks and video metadata.
// Primary:  ANDROID Innertube /player → captionTracks
// Fallback: scrape watch page ytInitialPlayerResponse → captionTracks
// Last resort: /next → engagement panel → /get_transcript (see youtube_panel.go)
type YouTube struct {
	playerURL        string
	watchURL         string
	oembedURL        string
	nextURL          string
	getTranscriptURL string
	log              *slog.Logger
}

// NewYouTube returns a client bound to the public YouTube endpoints.
// Outbound HTTP goes through engine.Do and engine.Cfg.
func NewYouTube(log *slog.Logger) *YouTube {
	if log == nil {
		log = slog.Default()
	}
	return &YouTube{
		playerURL:        ytPlayerURL,
		watchURL:         ytWatchURL,
		oembedURL:        ytOEmbedURL,
		nextURL:          ytNextURL,
		getTranscriptURL: ytGetTranscriptURL,
		log:              log,
	}
}

// maxTimedTextBytes bounds a single caption document.
const maxTimedTextBytes = 2 * 1024 * 1024

// ListTracks enumerates every caption track of a video.
// Returns ErrTranscriptsDisabled when the video is playable but has no captions.
func (y *YouTube) ListTracks(ctx context.Context, videoID string) (*TrackList, error) {
	resp, err := y.postPlayer(ctx, videoID)
	if err == nil {
		list, listErr := buildTrackList(videoID, resp)
		if listErr == nil || errors.Is(listErr, engine.ErrTranscriptsDisabled) {
			return list, listErr
		}
		err = listErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	y.log.Warn("youtube: player failed, trying watch page",
		slog.String("id", videoID), slog.Any("err", err))

	resp, scrapeErr := y.scrapePlayer(ctx, videoID)
	if scrapeErr != nil {
		return nil, fmt.Errorf("list tracks %s: %w", videoID, errors.Join(err, scrapeErr))
	}
	return buildTrackList(videoID, resp)
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// FetchTrack downloads and parses the timedtext XML of a track.
// Entries keep document order, which is playback order.
func (y *YouTube) FetchTrack(ctx context.Context, t CaptionTrack) ([]engine.CaptionEntry, error) {
	if needsPoToken(t.BaseURL) {
		return nil, fmt.Errorf("%s/%s: %w", t.VideoID, t.LanguageCode, engine.ErrPoTokenRequired)
	}

	resp, err := engine.Do(ctx, http.MethodGet, t.BaseURL, nil, engine.BrowserHeaders())
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	body, err := engine.ReadOK(resp, maxTimedTextBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("empty timedtext for %s/%s", t.VideoID, t.LanguageCode)
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	entries := make([]engine.CaptionEntry, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := engine.CleanCaption(line.Text)
		if text == "" {
			continue
		}
		entries = append(entries, engine.CaptionEntry{Start: line.Start, Duration: line.Dur, Text: text})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("timedtext for %s/%s has no lines", t.VideoID, t.LanguageCode)
	}
	return entries, nil
}

// FetchTranscript lists the tracks of a video and fetches the first one
// matching langs in priority order. No langs means engine.DefaultLanguage.
func (y *YouTube) FetchTranscript(ctx context.Context, videoID string, langs []string) ([]engine.CaptionEntry, error) {
	list, err := y.ListTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(langs) == 0 {
		langs = []string{engine.DefaultLanguage}
	}
	track, err := list.Find(langs...)
	if err != nil {
		return nil, err
	}
	return y.FetchTrack(ctx, track)
}
