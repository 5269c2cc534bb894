package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"regexp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Transcript engagement panel: /next → getTranscriptEndpoint token → /get_transcript.
// Works from datacenter IPs where /player returns LOGIN_REQUIRED.
// YouTube picks the panel language, so callers use it only as a last resort.

const (
	ytNextURL          = "https://www.youtube.com/youtubei/v1/next"
	ytGetTranscriptURL = "https://www.youtube.com/youtubei/v1/get_transcript"
	ytWebVersion       = "2.20250222.10.00"
)

// --- WEB client types (/next and /get_transcript endpoints) ---

type ytWebClientCtx struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	VisitorData   string `json:"visitorData,omitempty"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type ytWebUser struct {
	EnableSafetyMode bool `json:"enableSafetyMode"`
}

type ytWebReqCtx struct {
	UseSsl bool `json:"useSsl"`
}

type ytPanelSegment struct {
	TranscriptSegmentRenderer *struct {
		StartMs int64 `json:"startMs,string"`
		EndMs   int64 `json:"endMs,string"`
		Snippet ytText `json:"snippet"`
	} `json:"transcriptSegmentRenderer"`
}

type ytGetTranscriptResp struct {
	Actions []struct {
		UpdateEngagementPanelAction *struct {
			Content struct {
				TranscriptRenderer struct {
					Content struct {
						TranscriptSearchPanelRenderer struct {
							Body struct {
								TranscriptSegmentListRenderer struct {
									InitialSegments []ytPanelSegment `json:"initialSegments"`
								} `json:"transcriptSegmentListRenderer"`
							} `json:"body"`
						} `json:"transcriptSearchPanelRenderer"`
					} `json:"content"`
				} `json:"transcriptRenderer"`
			} `json:"content"`
		} `json:"updateEngagementPanelAction"`
	} `json:"actions"`
}

// getTranscriptRE extracts the continuation token from a raw /next JSON response.
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

// extractTranscriptToken returns the /get_transcript params.
// The value in /next is URL-encoded; /get_transcript expects the raw base64 form.
func extractTranscriptToken(data []byte) (string, error) {
	m := getTranscriptRE.FindSubmatch(data)
	if len(m) < 2 {
		return "", fmt.Errorf("%w: no transcript panel", engine.ErrNoTranscriptFound)
	}
	decoded, err := url.QueryUnescape(string(m[1]))
	if err != nil {
		return string(m[1]), nil
	}
	return decoded, nil
}

// panelEntries converts transcript segments to caption entries in panel order.
func panelEntries(resp ytGetTranscriptResp) []engine.CaptionEntry {
	var entries []engine.CaptionEntry
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		segs := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, seg := range segs {
			r := seg.TranscriptSegmentRenderer
			if r == nil {
				continue
			}
			text := engine.CleanCaption(r.Snippet.String())
			if text == "" {
				continue
			}
			e := engine.CaptionEntry{Start: float64(r.StartMs) / 1000, Text: text}
			if r.EndMs > r.StartMs {
				e.Duration = float64(r.EndMs-r.StartMs) / 1000
			}
			entries = append(entries, e)
		}
	}
	return entries
}

// FetchPanelTranscript fetches the transcript shown in the watch page engagement panel.
func (y *YouTube) FetchPanelTranscript(ctx context.Context, videoID string) ([]engine.CaptionEntry, error) {
	visitorData := generateVisitorData()

	nextData, err := y.postInnerTubeWEB(ctx, y.nextURL, map[string]any{
		"videoId": videoID,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("/next: %w", err)
	}

	token, err := extractTranscriptToken(nextData)
	if err != nil {
		return nil, fmt.Errorf("panel %s: %w", videoID, err)
	}

	data, err := y.postInnerTubeWEB(ctx, y.getTranscriptURL, map[string]any{
		"params":  token,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("/get_transcript: %w", err)
	}

	var resp ytGetTranscriptResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode transcript panel: %w", err)
	}
	entries := panelEntries(resp)
	if len(entries) == 0 {
		return nil, errors.New("empty transcript segments")
	}
	return entries, nil
}

// generateVisitorData creates a random 11-char visitor ID for Innertube requests.
func generateVisitorData() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := make([]byte, 11)
	for i := range b {
		b[i] = chars[rand.IntN(len(chars))] //nolint:gosec // non-cryptographic use
	}
	return string(b)
}

// ytWebContext builds the standard WEB client context for Innertube payloads.
func ytWebContext(visitorData string) map[string]any {
	return map[string]any{
		"client": ytWebClientCtx{
			ClientName:    "WEB",
			ClientVersion: ytWebVersion,
			VisitorData:   visitorData,
			Hl:            "en",
			Gl:            "US",
		},
		"user":    ytWebUser{EnableSafetyMode: false},
		"request": ytWebReqCtx{UseSsl: true},
	}
}

// postInnerTubeWEB POSTs to a YouTube Innertube endpoint with WEB client headers.
func (y *YouTube) postInnerTubeWEB(ctx context.Context, endpoint string, payload any, visitorData string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := engine.Do(ctx, http.MethodPost, endpoint+"?prettyPrint=false", body, map[string]string{
		"content-type":             "application/json",
		"accept":                   "*/*",
		"user-agent":               engine.BrowserHeaders()["user-agent"],
		"x-youtube-client-name":    "1",
		"x-youtube-client-version": ytWebVersion,
		"x-goog-visitor-id":        visitorData,
		"origin":                   "https://www.youtube.com",
		"referer":                  "https://www.youtube.com/",
	})
	if err != nil {
		return nil, fmt.Errorf("innertube WEB: %w", err)
	}
	data, err := engine.ReadOK(resp, maxPlayerBytes)
	if err != nil {
		return nil, fmt.Errorf("innertube WEB: %w", err)
	}
	return data, nil
}
