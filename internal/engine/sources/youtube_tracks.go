package sources

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// CaptionTrack is one language/version of captions for a video.
type CaptionTrack struct {
	VideoID        string `json:"video_id"`
	BaseURL        string `json:"-"`
	LanguageCode   string `json:"language_code"`
	Language       string `json:"language"`
	Generated      bool   `json:"generated"`
	Translatable   bool   `json:"translatable"`
	TranslatedFrom string `json:"translated_from,omitempty"`
}

// TranslationLanguage is a target offered for on-the-fly translation.
type TranslationLanguage struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TrackList holds every caption track of a video, split by origin.
// Manual tracks are authored by the uploader, generated ones come from ASR.
type TrackList struct {
	VideoID              string
	Manual               []CaptionTrack
	Generated            []CaptionTrack
	TranslationLanguages []TranslationLanguage
}

// All returns manual tracks followed by generated tracks.
func (l *TrackList) All() []CaptionTrack {
	all := make([]CaptionTrack, 0, len(l.Manual)+len(l.Generated))
	all = append(all, l.Manual...)
	return append(all, l.Generated...)
}

// Empty reports whether the video has no tracks at all.
func (l *TrackList) Empty() bool {
	return len(l.Manual) == 0 && len(l.Generated) == 0
}

// Find returns the first track matching langs in priority order.
// For each language the manual list is searched before the generated one.
func (l *TrackList) Find(langs ...string) (CaptionTrack, error) {
	return l.find(langs, l.Manual, l.Generated)
}

// FindGenerated is Find restricted to auto-generated tracks.
func (l *TrackList) FindGenerated(langs ...string) (CaptionTrack, error) {
	return l.find(langs, l.Generated)
}

func (l *TrackList) find(langs []string, groups ...[]CaptionTrack) (CaptionTrack, error) {
	for _, lang := range langs {
		for _, group := range groups {
			for _, t := range group {
				if strings.EqualFold(t.LanguageCode, lang) {
					return t, nil
				}
			}
		}
	}
	return CaptionTrack{}, fmt.Errorf("%w for %s in %v", engine.ErrNoTranscriptFound, l.VideoID, langs)
}

// Translate returns a copy of t that fetches its text translated to lang.
// Fails with ErrNotTranslatable when the track or the language is not offered.
func (l *TrackList) Translate(t CaptionTrack, lang string) (CaptionTrack, error) {
	if strings.EqualFold(t.LanguageCode, lang) {
		return t, nil
	}
	if !t.Translatable {
		return CaptionTrack{}, fmt.Errorf("%w: %s track of %s", engine.ErrNotTranslatable, t.LanguageCode, l.VideoID)
	}

	name := lang
	if len(l.TranslationLanguages) > 0 {
		found := false
		for _, tl := range l.TranslationLanguages {
			if strings.EqualFold(tl.Code, lang) {
				name, found = tl.Name, true
				break
			}
		}
		if !found {
			return CaptionTrack{}, fmt.Errorf("%w: %s not offered for %s", engine.ErrNotTranslatable, lang, l.VideoID)
		}
	}

	out := t
	out.BaseURL = t.BaseURL + "&tlang=" + url.QueryEscape(lang)
	out.LanguageCode = lang
	out.Language = name
	out.Translatable = false
	out.TranslatedFrom = t.LanguageCode
	return out, nil
}

// buildTrackList converts a player response into a TrackList.
// A playable video without a captions renderer has captions disabled.
func buildTrackList(videoID string, resp *innertubePlayerResp) (*TrackList, error) {
	if ps := resp.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		return nil, fmt.Errorf("%w: %s %s", engine.ErrVideoUnavailable, ps.Status, ps.Reason)
	}
	if resp.Captions == nil {
		return nil, engine.ErrTranscriptsDisabled
	}

	renderer := resp.Captions.PlayerCaptionsTracklistRenderer
	list := &TrackList{VideoID: videoID}
	for _, tl := range renderer.TranslationLanguages {
		list.TranslationLanguages = append(list.TranslationLanguages, TranslationLanguage{
			Code: tl.LanguageCode,
			Name: tl.LanguageName.String(),
		})
	}
	for _, ct := range renderer.CaptionTracks {
		t := CaptionTrack{
			VideoID:      videoID,
			BaseURL:      strings.Replace(ct.BaseURL, "&fmt=srv3", "", 1),
			LanguageCode: ct.LanguageCode,
			Language:     ct.Name.String(),
			Generated:    ct.Kind == "asr",
			Translatable: ct.IsTranslatable,
		}
		if t.Generated {
			list.Generated = append(list.Generated, t)
		} else {
			list.Manual = append(list.Manual, t)
		}
	}
	if list.Empty() {
		return nil, engine.ErrTranscriptsDisabled
	}
	return list, nil
}
