// Package transcripts turns video ids into formatted transcripts.
// Resolver picks a caption track through an ordered fallback chain,
// Format renders the document and Processor runs batches of URLs.
package transcripts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
)

// Captions is the caption source the resolver works against.
// *sources.YouTube implements it.
type Captions interface {
	FetchTranscript(ctx context.Context, videoID string, langs []string) ([]engine.CaptionEntry, error)
	ListTracks(ctx context.Context, videoID string) (*sources.TrackList, error)
	FetchTrack(ctx context.Context, t sources.CaptionTrack) ([]engine.CaptionEntry, error)
	FetchPanelTranscript(ctx context.Context, videoID string) ([]engine.CaptionEntry, error)
}

// ErrorKind classifies a resolution failure.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindTranscriptsDisabled
	KindNoTranscriptFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindTranscriptsDisabled:
		return "transcripts_disabled"
	case KindNoTranscriptFound:
		return "no_transcript_found"
	default:
		return "unexpected"
	}
}

// ResolutionError is the only error type returned by Resolver.Resolve.
// Error returns a user-facing sentence; the cause is kept in Err.
type ResolutionError struct {
	Kind    ErrorKind
	VideoID string
	Err     error
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case KindTranscriptsDisabled:
		return "Subtitles are disabled for this video."
	case KindNoTranscriptFound:
		return "No transcript is available for this video in any language."
	default:
		cause := "unknown error"
		if e.Err != nil {
			cause = e.Err.Error()
		}
		return "Failed to fetch transcript: " + cause
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Details returns the underlying cause for diagnostics, or "".
func (e *ResolutionError) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// strategy is one direct-fetch step of the chain.
type strategy struct {
	name string
	run  func(ctx context.Context, c Captions, videoID, lang string) ([]engine.CaptionEntry, error)
}

// pick selects a track from an enumerated list without any I/O.
type pick struct {
	name string
	fn   func(l *sources.TrackList, lang string) (sources.CaptionTrack, error)
}

var directStrategies = []strategy{
	// The unconstrained fetch yields the capability default language,
	// which only counts when it is the target.
	{"direct", func(ctx context.Context, c Captions, id, lang string) ([]engine.CaptionEntry, error) {
		if !strings.EqualFold(lang, engine.DefaultLanguage) {
			return nil, fmt.Errorf("%w: default %s is not %s", engine.ErrNoTranscriptFound, engine.DefaultLanguage, lang)
		}
		return c.FetchTranscript(ctx, id, nil)
	}},
	{"direct_language", func(ctx context.Context, c Captions, id, lang string) ([]engine.CaptionEntry, error) {
		return c.FetchTranscript(ctx, id, []string{lang})
	}},
}

var trackPicks = []pick{
	{"exact", func(l *sources.TrackList, lang string) (sources.CaptionTrack, error) {
		return l.Find(lang)
	}},
	{"generated", func(l *sources.TrackList, lang string) (sources.CaptionTrack, error) {
		return l.FindGenerated(lang)
	}},
	{"manual_translated", func(l *sources.TrackList, lang string) (sources.CaptionTrack, error) {
		return translateFirst(l, l.Manual, lang)
	}},
	{"generated_translated", func(l *sources.TrackList, lang string) (sources.CaptionTrack, error) {
		return translateFirst(l, l.Generated, lang)
	}},
	{"first_translated", func(l *sources.TrackList, lang string) (sources.CaptionTrack, error) {
		all := l.All()
		if len(all) == 0 {
			return sources.CaptionTrack{}, engine.ErrNoTranscriptFound
		}
		return l.Translate(all[0], lang)
	}},
}

// translateFirst translates the first translatable track of group.
func translateFirst(l *sources.TrackList, group []sources.CaptionTrack, lang string) (sources.CaptionTrack, error) {
	for _, t := range group {
		if !t.Translatable {
			continue
		}
		if tr, err := l.Translate(t, lang); err == nil {
			return tr, nil
		}
	}
	return sources.CaptionTrack{}, fmt.Errorf("%w to %s", engine.ErrNotTranslatable, lang)
}

// Resolver fetches the best available caption track of a video.
type Resolver struct {
	captions Captions
	log      *slog.Logger
}

// NewResolver creates a resolver over a caption source.
func NewResolver(c Captions, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{captions: c, log: log}
}

// Resolve returns the caption entries of a video in playback order.
// Steps run in order and the first success wins:
// direct fetch, direct fetch in lang, then picks over the enumerated track list.
// Disabled captions end the chain at whichever step reports them.
// When the tracks cannot be listed at all, the engagement panel is the last resort.
// An empty lang means engine.Cfg.Language.
func (r *Resolver) Resolve(ctx context.Context, videoID, lang string) ([]engine.CaptionEntry, error) {
	if lang == "" {
		lang = engine.Cfg.Language
	}
	log := r.log.With(slog.String("id", videoID), slog.String("lang", lang))

	for _, s := range directStrategies {
		entries, err := s.run(ctx, r.captions, videoID, lang)
		if err == nil && len(entries) > 0 {
			return r.resolved(log, s.name, entries), nil
		}
		if errors.Is(err, engine.ErrTranscriptsDisabled) {
			return nil, r.fail(log, KindTranscriptsDisabled, videoID, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, r.fail(log, KindUnexpected, videoID, ctxErr)
		}
		log.Debug("transcripts: strategy failed", slog.String("strategy", s.name), slog.Any("error", err))
	}

	list, err := r.captions.ListTracks(ctx, videoID)
	if err != nil {
		kind := classify(err)
		if kind == KindUnexpected && ctx.Err() == nil {
			entries, panelErr := r.captions.FetchPanelTranscript(ctx, videoID)
			if panelErr == nil && len(entries) > 0 {
				return r.resolved(log, "engagement_panel", entries), nil
			}
			log.Debug("transcripts: panel failed", slog.Any("error", panelErr))
		}
		return nil, r.fail(log, kind, videoID, fmt.Errorf("list tracks: %w", err))
	}

	var unexpected error
	for _, p := range trackPicks {
		track, err := p.fn(list, lang)
		if err != nil {
			if !isMiss(err) {
				unexpected = err
			}
			continue
		}
		entries, err := r.captions.FetchTrack(ctx, track)
		if err == nil && len(entries) > 0 {
			return r.resolved(log, p.name, entries), nil
		}
		if errors.Is(err, engine.ErrTranscriptsDisabled) {
			return nil, r.fail(log, KindTranscriptsDisabled, videoID, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, r.fail(log, KindUnexpected, videoID, ctxErr)
		}
		if err == nil {
			err = fmt.Errorf("%s track of %s is empty", track.LanguageCode, videoID)
		}
		log.Debug("transcripts: track failed", slog.String("strategy", p.name),
			slog.String("track", track.LanguageCode), slog.Any("error", err))
		if !isMiss(err) {
			unexpected = err
		}
	}

	if unexpected != nil {
		return nil, r.fail(log, KindUnexpected, videoID, unexpected)
	}
	return nil, r.fail(log, KindNoTranscriptFound, videoID,
		fmt.Errorf("%w for %s in %s or by translation", engine.ErrNoTranscriptFound, videoID, lang))
}

func (r *Resolver) resolved(log *slog.Logger, strategy string, entries []engine.CaptionEntry) []engine.CaptionEntry {
	engine.IncrTranscriptsResolved()
	engine.IncrStrategy(strategy)
	log.Debug("transcripts: resolved", slog.String("strategy", strategy), slog.Int("entries", len(entries)))
	return entries
}

func (r *Resolver) fail(log *slog.Logger, kind ErrorKind, videoID string, err error) *ResolutionError {
	switch kind {
	case KindTranscriptsDisabled:
		engine.IncrTranscriptsDisabled()
	case KindNoTranscriptFound:
		engine.IncrTranscriptsNotFound()
	default:
		engine.IncrTranscriptsFailed()
	}
	log.Info("transcripts: unresolved", slog.String("kind", kind.String()), slog.Any("error", err))
	return &ResolutionError{Kind: kind, VideoID: videoID, Err: err}
}

// classify maps a track enumeration failure to an error kind.
// Unavailable and throttled videos are Unexpected: the cause may be transient.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, engine.ErrTranscriptsDisabled):
		return KindTranscriptsDisabled
	case errors.Is(err, engine.ErrVideoUnavailable), errors.Is(err, engine.ErrTooManyRequests):
		return KindUnexpected
	case errors.Is(err, engine.ErrNoTranscriptFound):
		return KindNoTranscriptFound
	default:
		return KindUnexpected
	}
}

// isMiss reports whether err only means "this step has nothing to offer".
// Browser-only tracks are a miss: another track or translation may still serve.
func isMiss(err error) bool {
	return errors.Is(err, engine.ErrNoTranscriptFound) ||
		errors.Is(err, engine.ErrNotTranslatable) ||
		errors.Is(err, engine.ErrPoTokenRequired)
}
