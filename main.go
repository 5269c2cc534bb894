// go_transcript: YouTube transcript service.
//
// Serves the JSON API and web front end over HTTP (PORT) and exposes the
// youtube_transcript and youtube_caption_tracks MCP tools (MCP_PORT).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcripts"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
	"github.com/anatolykoptev/go_transcript/internal/transcriptserver"
	"github.com/anatolykoptev/go_transcript/internal/webapi"
)

var (
	version = "dev"
	port    = env.Str("PORT", "8080")
	mcpPort = env.Str("MCP_PORT", "8891")
)

func main() {
	initLogging()
	initEngine()

	yt := sources.NewYouTube(nil)
	resolver := transcripts.NewResolver(yt, nil)
	proc := transcripts.NewProcessor(yt, resolver, nil)

	web, err := webapi.New(proc, resolver, engine.Cfg.StaticDir, version, nil)
	if err != nil {
		slog.Error("web init failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting go_transcript",
		slog.String("version", version),
		slog.String("port", port),
		slog.String("mcp_port", mcpPort),
	)

	if mcpPort == "" || mcpPort == "0" {
		serveHTTPOnly(web)
		return
	}

	go func() {
		if err := web.Listen(":" + port); err != nil {
			slog.Error("http server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_transcript",
		Version: version,
	}, nil)
	transcriptserver.RegisterTools(server, proc, yt)
	slog.Info("tools registered", slog.Int("count", 2))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_transcript",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("mcp server failed", slog.Any("error", err))
	}
	shutdown(web)
}

// serveHTTPOnly runs the web server until SIGINT/SIGTERM.
func serveHTTPOnly(web *webapi.Server) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- web.Listen(":" + port) }()

	select {
	case err := <-errc:
		if err != nil {
			slog.Error("http server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdown(web)
	}
}

func shutdown(web *webapi.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := web.Shutdown(ctx); err != nil {
		slog.Warn("http shutdown", slog.Any("error", err))
	}
}

func initLogging() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(env.Str("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(env.Str("LOG_FORMAT", "text"), "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func initEngine() {
	engine.Init(configFromEnv())

	slog.Info("engine initialized",
		slog.String("language", engine.Cfg.Language),
		slog.Int("batch_concurrency", engine.Cfg.BatchConcurrency),
		slog.Float64("youtube_rps", engine.Cfg.YouTubeRPS),
	)
}

// configFromEnv builds the engine configuration.
// TRANSCRIPT_LANGUAGE is normalized the same way as request languages.
func configFromEnv() engine.Config {
	fetchTimeout := env.Duration("FETCH_TIMEOUT", 15*time.Second)
	return engine.Config{
		Language:         toolutil.NormLang(env.Str("TRANSCRIPT_LANGUAGE", engine.DefaultLanguage)),
		FetchTimeout:     fetchTimeout,
		VideoTimeout:     env.Duration("VIDEO_TIMEOUT", 60*time.Second),
		BatchConcurrency: env.Int("BATCH_CONCURRENCY", 1),
		YouTubeRPS:       env.Float("YOUTUBE_RPS", 0),
		StaticDir:        env.Str("STATIC_DIR", ""),
		DebugVideoID:     env.Str("DEBUG_VIDEO_ID", engine.DefaultDebugVideoID),
		HTTPClient: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		Retry: engine.DefaultRetryConfig,
	}
}
