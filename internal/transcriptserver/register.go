// Package transcriptserver exposes the transcript pipeline as MCP tools.
package transcriptserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcripts"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
)

// Batcher runs a batch of URLs. *transcripts.Processor implements it.
type Batcher interface {
	ProcessBatch(ctx context.Context, urls []string, lang string) ([]transcripts.Result, error)
}

// TrackLister enumerates caption tracks. *sources.YouTube implements it.
type TrackLister interface {
	ListTracks(ctx context.Context, videoID string) (*sources.TrackList, error)
}

// TranscriptInput is the youtube_transcript tool input.
type TranscriptInput struct {
	URLs     []string `json:"urls" jsonschema:"YouTube video URLs (watch?v=, youtu.be/, embed/, shorts/)"`
	Language string   `json:"language,omitempty" jsonschema:"Target caption language code (default: en). Other languages are translated when YouTube allows it"`
}

// TranscriptOutput is the youtube_transcript tool output, one result per input URL.
type TranscriptOutput struct {
	Results []transcripts.Result `json:"results"`
}

// TracksInput is the youtube_caption_tracks tool input.
type TracksInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL"`
}

// TracksOutput lists the caption tracks of one video.
type TracksOutput struct {
	VideoID              string                        `json:"video_id"`
	Manual               []sources.CaptionTrack        `json:"manual"`
	Generated            []sources.CaptionTrack        `json:"generated"`
	TranslationLanguages []sources.TranslationLanguage `json:"translation_languages"`
}

// RegisterTools registers youtube_transcript and youtube_caption_tracks.
func RegisterTools(server *mcp.Server, batcher Batcher, tracks TrackLister) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch timestamped transcripts of YouTube videos. Each result has the video title, channel and a plain-text transcript with [MM:SS] timestamps, or an error explaining why no transcript is available (invalid link, subtitles disabled, no captions).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, transcriptHandler(batcher))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_caption_tracks",
		Description: "List the caption tracks of a YouTube video: manual and auto-generated languages, and the languages they can be translated to.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, tracksHandler(tracks))
}

func transcriptHandler(b Batcher) mcp.ToolHandlerFor[TranscriptInput, TranscriptOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, TranscriptOutput, error) {
		if err := toolutil.CheckURLs(input.URLs); err != nil {
			return nil, TranscriptOutput{}, err
		}
		lang := toolutil.NormLang(input.Language)
		results, err := b.ProcessBatch(ctx, input.URLs, lang)
		if err != nil {
			return nil, TranscriptOutput{}, err
		}
		slog.Info("youtube_transcript: done", slog.Int("urls", len(input.URLs)), slog.String("lang", lang))
		return nil, TranscriptOutput{Results: results}, nil
	}
}

func tracksHandler(tl TrackLister) mcp.ToolHandlerFor[TracksInput, TracksOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TracksInput) (*mcp.CallToolResult, TracksOutput, error) {
		id, ok := sources.ExtractVideoID(strings.TrimSpace(input.URL))
		if !ok {
			return nil, TracksOutput{}, transcripts.ErrInvalidURL
		}
		list, err := tl.ListTracks(ctx, id)
		if err != nil {
			return nil, TracksOutput{}, fmt.Errorf("list caption tracks of %s: %w", id, err)
		}
		return nil, TracksOutput{
			VideoID:              id,
			Manual:               list.Manual,
			Generated:            list.Generated,
			TranslationLanguages: list.TranslationLanguages,
		}, nil
	}
}
