package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcripts"
)

type fakeBatcher struct {
	gotURLs []string
	gotLang string
	err     error
	panics  bool
}

func (f *fakeBatcher) ProcessBatch(_ context.Context, urls []string, lang string) ([]transcripts.Result, error) {
	if f.panics {
		panic("orchestrator exploded")
	}
	f.gotURLs, f.gotLang = urls, lang
	if f.err != nil {
		return nil, f.err
	}
	out := make([]transcripts.Result, len(urls))
	for i, u := range urls {
		out[i] = transcripts.Result{URL: u, Status: transcripts.StatusSuccess, Title: "title " + u, Transcript: "t"}
	}
	return out, nil
}

type fakeResolver struct{ err error }

func (f fakeResolver) Resolve(_ context.Context, videoID, _ string) ([]engine.CaptionEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []engine.CaptionEntry{{Start: 0, Text: "hello " + videoID}, {Start: 1, Text: "again"}}, nil
}

func newTestServer(t *testing.T, b Batcher, r transcripts.TranscriptResolver, staticDir string) *Server {
	t.Helper()
	s, err := New(b, r, staticDir, "test", nil)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, target, body string) (int, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestTranscriptEndpoint(t *testing.T) {
	b := &fakeBatcher{}
	s := newTestServer(t, b, fakeResolver{}, "")

	code, body := do(t, s, http.MethodPost, "/api/transcript",
		`{"urls":["https://youtu.be/jNQXAC9IVRw","  "],"language":"en-GB"}`)
	require.Equal(t, http.StatusOK, code, body)

	var out struct {
		Results []transcripts.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Results, 2)
	assert.Equal(t, "https://youtu.be/jNQXAC9IVRw", out.Results[0].URL)
	assert.Equal(t, []string{"https://youtu.be/jNQXAC9IVRw", "  "}, b.gotURLs, "inputs are passed through unfiltered")
	assert.Equal(t, "en", b.gotLang)
}

func TestTranscriptEndpointErrors(t *testing.T) {
	tests := []struct {
		name     string
		batcher  *fakeBatcher
		body     string
		wantCode int
		wantBody string
	}{
		{"empty urls", &fakeBatcher{}, `{"urls":[]}`, 400, `{"error":"No URLs provided"}`},
		{"absent urls", &fakeBatcher{}, `{}`, 400, `{"error":"No URLs provided"}`},
		{"null urls", &fakeBatcher{}, `{"urls":null}`, 400, `{"error":"No URLs provided"}`},
		{"malformed json", &fakeBatcher{}, `{"urls":`, 400, `{"error":"Invalid request body"}`},
		{"empty body", &fakeBatcher{}, ``, 400, `{"error":"Invalid request body"}`},
		{"urls not a list", &fakeBatcher{}, `{"urls":"https://youtu.be/jNQXAC9IVRw"}`, 400, `{"error":"Invalid request body"}`},
		{"orchestrator error", &fakeBatcher{err: errors.New("processing x: boom")}, `{"urls":["x"]}`, 500, `{"error":"processing x: boom"}`},
		{"orchestrator panic", &fakeBatcher{panics: true}, `{"urls":["x"]}`, 500, `{"error":"orchestrator exploded"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.batcher, fakeResolver{}, "")
			code, body := do(t, s, http.MethodPost, "/api/transcript", tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestDebugEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeBatcher{}, fakeResolver{}, "")

	code, body := do(t, s, http.MethodGet, "/api/debug", "")
	require.Equal(t, http.StatusOK, code, body)
	var out debugResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "test", out.Version)
	assert.NotEmpty(t, out.Go)
	assert.Equal(t, engine.Cfg.DebugVideoID, out.SelfTest.VideoID)
	assert.True(t, out.SelfTest.OK)
	assert.Equal(t, 2, out.SelfTest.Entries)
	assert.Equal(t, engine.Cfg.Language, out.Config.Language)

	code, body = do(t, s, http.MethodGet, "/api/debug/dQw4w9WgXcQ", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "dQw4w9WgXcQ", out.SelfTest.VideoID)
	assert.Equal(t, "hello dQw4w9WgXcQ", out.SelfTest.First)

	code, body = do(t, s, http.MethodGet, "/api/debug/https%3A%2F%2Fyoutu.be%2FdQw4w9WgXcQ", "")
	require.Equal(t, http.StatusOK, code, body)
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "dQw4w9WgXcQ", out.SelfTest.VideoID)

	code, _ = do(t, s, http.MethodGet, "/api/debug/short", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDebugEndpointSelfTestFailure(t *testing.T) {
	failing := fakeResolver{err: &transcripts.ResolutionError{Kind: transcripts.KindTranscriptsDisabled}}
	s := newTestServer(t, &fakeBatcher{}, failing, "")

	code, body := do(t, s, http.MethodGet, "/api/debug", "")
	require.Equal(t, http.StatusOK, code)
	var out debugResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.False(t, out.SelfTest.OK)
	assert.Equal(t, "Subtitles are disabled for this video.", out.SelfTest.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeBatcher{}, fakeResolver{}, "")
	code, body := do(t, s, http.MethodGet, "/api/metrics", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "batch_requests ")
	assert.Contains(t, body, "strategy_translated ")
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newTestServer(t, &fakeBatcher{}, fakeResolver{}, "")
	code, body := do(t, s, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"Not found"}`, body)
}

func TestStaticEmbedded(t *testing.T) {
	s := newTestServer(t, &fakeBatcher{}, fakeResolver{}, "")

	code, index := do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, index, "<title>")

	code, body := do(t, s, http.MethodGet, "/app.js", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "/api/transcript")

	code, body = do(t, s, http.MethodGet, "/some/client/route", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, index, body, "unmatched paths fall back to index.html")
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>custom</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robots.txt"), []byte("User-agent: *"), 0o644))
	s := newTestServer(t, &fakeBatcher{}, fakeResolver{}, dir)

	_, body := do(t, s, http.MethodGet, "/robots.txt", "")
	assert.Equal(t, "User-agent: *", body)

	_, body = do(t, s, http.MethodGet, "/missing.css", "")
	assert.Equal(t, "<p>custom</p>", body)

	_, body = do(t, s, http.MethodGet, "/../../etc/passwd", "")
	assert.Equal(t, "<p>custom</p>", body)

	_, err := New(&fakeBatcher{}, fakeResolver{}, filepath.Join(dir, "nope"), "test", nil)
	assert.Error(t, err)
}
