package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

type oembedResp struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// FetchMetadata returns title and channel for a video. It never fails:
// watch page markup first, oEmbed for missing fields, placeholders last.
func (y *YouTube) FetchMetadata(ctx context.Context, videoID string) engine.VideoMetadata {
	meta := engine.VideoMetadata{URL: engine.WatchURL(videoID)}

	if body, err := y.fetchWatchPage(ctx, videoID); err != nil {
		y.log.Debug("youtube: metadata watch page failed", slog.String("id", videoID), slog.Any("err", err))
	} else {
		meta.Title, meta.Channel = parseWatchMetadata(body)
	}

	if meta.Title == "" || meta.Channel == "" {
		if title, channel, err := y.fetchOEmbed(ctx, videoID); err != nil {
			y.log.Debug("youtube: oembed failed", slog.String("id", videoID), slog.Any("err", err))
		} else {
			if meta.Title == "" {
				meta.Title = title
			}
			if meta.Channel == "" {
				meta.Channel = channel
			}
		}
	}

	fallback := engine.PlaceholderMetadata(videoID)
	if meta.Title == "" {
		meta.Title = fallback.Title
		engine.IncrMetadataFallbacks()
	}
	if meta.Channel == "" {
		meta.Channel = fallback.Channel
		engine.IncrMetadataFallbacks()
	}
	return meta
}

// parseWatchMetadata extracts title and channel from watch page HTML.
// Missing fields are returned empty.
func parseWatchMetadata(body []byte) (title, channel string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", ""
	}

	title = firstAttr(doc, "content", `meta[property="og:title"]`, `meta[name="title"]`)
	if title == "" {
		title = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(doc.Find("title").First().Text()), "- YouTube"))
	}
	channel = firstAttr(doc, "content", `span[itemprop="author"] link[itemprop="name"]`, `meta[name="author"]`)
	return title, channel
}

func firstAttr(doc *goquery.Document, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr(attr); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// fetchOEmbed queries the public oEmbed endpoint.
func (y *YouTube) fetchOEmbed(ctx context.Context, videoID string) (title, channel string, err error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("url", engine.WatchURL(videoID))

	resp, err := engine.Do(ctx, http.MethodGet, y.oembedURL+"?"+q.Encode(), nil, engine.BrowserHeaders())
	if err != nil {
		return "", "", err
	}
	data, err := engine.ReadOK(resp, 64*1024)
	if err != nil {
		return "", "", err
	}
	var out oembedResp
	if err := json.Unmarshal(data, &out); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(out.Title), strings.TrimSpace(out.AuthorName), nil
}
