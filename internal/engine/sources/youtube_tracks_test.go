package sources

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

func sampleTrackList() *TrackList {
	return &TrackList{
		VideoID: "abcdefghijk",
		Manual: []CaptionTrack{
			{VideoID: "abcdefghijk", BaseURL: "https://x/tt?lang=de", LanguageCode: "de", Language: "German", Translatable: true},
			{VideoID: "abcdefghijk", BaseURL: "https://x/tt?lang=fr", LanguageCode: "fr", Language: "French"},
		},
		Generated: []CaptionTrack{
			{VideoID: "abcdefghijk", BaseURL: "https://x/tt?lang=en&kind=asr", LanguageCode: "en", Language: "English (auto-generated)", Generated: true, Translatable: true},
		},
		TranslationLanguages: []TranslationLanguage{{Code: "en", Name: "English"}, {Code: "es", Name: "Spanish"}},
	}
}

func TestTrackListFind(t *testing.T) {
	l := sampleTrackList()

	got, err := l.Find("en")
	require.NoError(t, err)
	assert.True(t, got.Generated)

	got, err = l.Find("es", "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, "fr", got.LanguageCode, "earlier language in the list wins")

	_, err = l.Find("ja")
	assert.True(t, errors.Is(err, engine.ErrNoTranscriptFound))

	got, err = l.FindGenerated("EN")
	require.NoError(t, err)
	assert.Equal(t, "en", got.LanguageCode)
}

func TestTrackListFindPrefersManual(t *testing.T) {
	l := sampleTrackList()
	l.Manual = append(l.Manual, CaptionTrack{LanguageCode: "en", Language: "English"})

	got, err := l.Find("en")
	require.NoError(t, err)
	assert.False(t, got.Generated)
}

func TestTrackListTranslate(t *testing.T) {
	l := sampleTrackList()

	tr, err := l.Translate(l.Manual[0], "en")
	require.NoError(t, err)
	assert.Equal(t, "en", tr.LanguageCode)
	assert.Equal(t, "English", tr.Language)
	assert.Equal(t, "de", tr.TranslatedFrom)
	assert.True(t, strings.HasSuffix(tr.BaseURL, "&tlang=en"))
	assert.Equal(t, "https://x/tt?lang=de", l.Manual[0].BaseURL, "source track must not change")

	_, err = l.Translate(l.Manual[1], "en")
	assert.True(t, errors.Is(err, engine.ErrNotTranslatable), "fr is not translatable")

	_, err = l.Translate(l.Manual[0], "ja")
	assert.True(t, errors.Is(err, engine.ErrNotTranslatable), "ja is not offered")

	same, err := l.Translate(l.Generated[0], "en")
	require.NoError(t, err)
	assert.Equal(t, l.Generated[0], same)
}

func TestTrackListAll(t *testing.T) {
	l := sampleTrackList()
	all := l.All()
	require.Len(t, all, 3)
	assert.Equal(t, "de", all[0].LanguageCode)
	assert.Equal(t, "en", all[2].LanguageCode)
	assert.False(t, l.Empty())
	assert.True(t, (&TrackList{}).Empty())
}

func TestBuildTrackList(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		_, err := buildTrackList("abcdefghijk", &innertubePlayerResp{})
		assert.True(t, errors.Is(err, engine.ErrTranscriptsDisabled))
	})

	t.Run("unplayable", func(t *testing.T) {
		resp := &innertubePlayerResp{}
		resp.PlayabilityStatus = &struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		}{Status: "LOGIN_REQUIRED", Reason: "Sign in"}
		_, err := buildTrackList("abcdefghijk", resp)
		assert.True(t, errors.Is(err, engine.ErrVideoUnavailable))
	})
}
