package webapi

import (
	"context"
	"net/url"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
)

// debugModules are the dependencies reported by /api/debug.
var debugModules = []string{
	"github.com/gofiber/fiber/v2",
	"github.com/PuerkitoBio/goquery",
	"github.com/anatolykoptev/go-stealth",
	"github.com/anatolykoptev/go-kit",
	"github.com/modelcontextprotocol/go-sdk",
	"golang.org/x/net",
	"golang.org/x/text",
}

type debugResponse struct {
	Version  string            `json:"version"`
	Go       string            `json:"go"`
	OS       string            `json:"os"`
	Arch     string            `json:"arch"`
	Modules  map[string]string `json:"modules"`
	Config   debugConfig       `json:"config"`
	SelfTest selfTest          `json:"self_test"`
}

type debugConfig struct {
	Language         string  `json:"language"`
	FetchTimeout     string  `json:"fetch_timeout"`
	VideoTimeout     string  `json:"video_timeout"`
	BatchConcurrency int     `json:"batch_concurrency"`
	YouTubeRPS       float64 `json:"youtube_rps"`
	StaticDir        string  `json:"static_dir,omitempty"`
}

type selfTest struct {
	VideoID string `json:"video_id"`
	OK      bool   `json:"ok"`
	Entries int    `json:"entries"`
	First   string `json:"first,omitempty"`
	Error   string `json:"error,omitempty"`
	Took    string `json:"took"`
}

// handleDebug reports runtime details and resolves a fixture video.
// The optional :id parameter accepts a video id or a URL-escaped video URL.
func (s *Server) handleDebug(c *fiber.Ctx) error {
	videoID := engine.Cfg.DebugVideoID
	if raw := strings.TrimSpace(c.Params("id")); raw != "" {
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
		id, ok := debugVideoID(raw)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid YouTube URL")
		}
		videoID = id
	}

	return c.JSON(debugResponse{
		Version:  s.version,
		Go:       runtime.Version(),
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Modules:  moduleVersions(),
		Config:   currentConfig(),
		SelfTest: s.selfTest(c.UserContext(), videoID),
	})
}

func debugVideoID(raw string) (string, bool) {
	if id, ok := sources.ExtractVideoID(raw); ok {
		return id, true
	}
	if id, ok := sources.ExtractVideoID(engine.WatchURL(raw)); ok && id == raw {
		return id, true
	}
	return "", false
}

func (s *Server) selfTest(ctx context.Context, videoID string) selfTest {
	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.VideoTimeout)
	defer cancel()

	start := time.Now()
	res := selfTest{VideoID: videoID}
	entries, err := s.resolver.Resolve(ctx, videoID, engine.Cfg.Language)
	res.Took = time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	res.Entries = len(entries)
	if len(entries) > 0 {
		res.First = entries[0].Text
	}
	return res
}

func moduleVersions() map[string]string {
	out := make(map[string]string, len(debugModules))
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	for _, dep := range bi.Deps {
		for _, want := range debugModules {
			if dep.Path == want {
				out[dep.Path] = dep.Version
			}
		}
	}
	return out
}

func currentConfig() debugConfig {
	c := engine.Cfg
	return debugConfig{
		Language:         c.Language,
		FetchTimeout:     c.FetchTimeout.String(),
		VideoTimeout:     c.VideoTimeout.String(),
		BatchConcurrency: c.BatchConcurrency,
		YouTubeRPS:       c.YouTubeRPS,
		StaticDir:        c.StaticDir,
	}
}
