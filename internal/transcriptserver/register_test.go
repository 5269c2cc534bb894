package transcriptserver

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcripts"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
)

type fakeBatcher struct {
	gotURLs []string
	gotLang string
	err     error
}

func (f *fakeBatcher) ProcessBatch(_ context.Context, urls []string, lang string) ([]transcripts.Result, error) {
	f.gotURLs, f.gotLang = urls, lang
	if f.err != nil {
		return nil, f.err
	}
	out := make([]transcripts.Result, len(urls))
	for i, u := range urls {
		out[i] = transcripts.Result{URL: u, Status: transcripts.StatusSuccess, Title: "t"}
	}
	return out, nil
}

type fakeTracks struct{ err error }

func (f fakeTracks) ListTracks(_ context.Context, videoID string) (*sources.TrackList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sources.TrackList{
		VideoID: videoID,
		Manual:  []sources.CaptionTrack{{VideoID: videoID, LanguageCode: "en", Language: "English"}},
	}, nil
}

func TestTranscriptHandler(t *testing.T) {
	b := &fakeBatcher{}
	h := transcriptHandler(b)

	_, out, err := h(context.Background(), nil, TranscriptInput{URLs: []string{"https://youtu.be/jNQXAC9IVRw", "x"}, Language: "de-DE"})
	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, "de", b.gotLang)
	assert.Equal(t, []string{"https://youtu.be/jNQXAC9IVRw", "x"}, b.gotURLs)

	_, _, err = h(context.Background(), nil, TranscriptInput{})
	assert.True(t, errors.Is(err, toolutil.ErrNoURLs))

	b.err = errors.New("processing x: boom")
	_, _, err = h(context.Background(), nil, TranscriptInput{URLs: []string{"x"}})
	assert.EqualError(t, err, "processing x: boom")
}

func TestTracksHandler(t *testing.T) {
	h := tracksHandler(fakeTracks{})
	_, out, err := h(context.Background(), nil, TracksInput{URL: " https://www.youtube.com/watch?v=jNQXAC9IVRw "})
	require.NoError(t, err)
	assert.Equal(t, "jNQXAC9IVRw", out.VideoID)
	require.Len(t, out.Manual, 1)
	assert.Equal(t, "en", out.Manual[0].LanguageCode)

	_, _, err = h(context.Background(), nil, TracksInput{URL: "nope"})
	assert.True(t, errors.Is(err, transcripts.ErrInvalidURL))

	_, _, err = tracksHandler(fakeTracks{err: engine.ErrTranscriptsDisabled})(context.Background(), nil, TracksInput{URL: "https://youtu.be/jNQXAC9IVRw"})
	assert.True(t, errors.Is(err, engine.ErrTranscriptsDisabled))
}

func TestRegisterTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "dev"}, nil)
	assert.NotPanics(t, func() { RegisterTools(server, &fakeBatcher{}, fakeTracks{}) })
}
