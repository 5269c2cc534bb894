// Package webapi serves the JSON API and the single-page front end.
package webapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcripts"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
)

//go:embed static
var embeddedStatic embed.FS

// Batcher runs a batch of URLs. *transcripts.Processor implements it.
type Batcher interface {
	ProcessBatch(ctx context.Context, urls []string, lang string) ([]transcripts.Result, error)
}

// Server is the HTTP front end.
type Server struct {
	app      *fiber.App
	batcher  Batcher
	resolver transcripts.TranscriptResolver
	static   fs.FS
	version  string
	log      *slog.Logger
}

// New builds the fiber app and its routes. resolver backs the debug self-test.
// Static assets come from staticDir when set, otherwise from the embedded build.
func New(batcher Batcher, resolver transcripts.TranscriptResolver, staticDir, version string, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	static, err := staticFS(staticDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		batcher:  batcher,
		resolver: resolver,
		static:   static,
		version:  version,
		log:      log,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "go_transcript",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
		ReadTimeout:           30 * time.Second,
	})
	s.routes()
	return s, nil
}

func staticFS(dir string) (fs.FS, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(embeddedStatic, "static")
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(s.logRequests)

	api := s.app.Group("/api")
	api.Post("/transcript", s.handleTranscript)
	api.Get("/debug", s.handleDebug)
	api.Get("/debug/:id", s.handleDebug)
	api.Get("/metrics", s.handleMetrics)
	api.All("/*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	s.app.Get("/*", s.handleStatic)
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("http listening", slog.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

type transcriptRequest struct {
	URLs     []string `json:"urls"`
	Language string   `json:"language"`
}

func (s *Server) handleTranscript(c *fiber.Ctx) error {
	var req transcriptRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := toolutil.CheckURLs(req.URLs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	results, err := s.batcher.ProcessBatch(c.UserContext(), req.URLs, toolutil.NormLang(req.Language))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"results": results})
}

func (s *Server) handleMetrics(c *fiber.Ctx) error {
	c.Type("txt", "utf-8")
	return c.SendString(engine.FormatMetrics())
}

// handleStatic serves a front-end asset, falling back to index.html.
func (s *Server) handleStatic(c *fiber.Ctx) error {
	name := strings.TrimPrefix(path.Clean("/"+c.Params("*")), "/")
	if name == "" {
		name = "index.html"
	}
	data, err := fs.ReadFile(s.static, name)
	if err != nil {
		name = "index.html"
		if data, err = fs.ReadFile(s.static, name); err != nil {
			return fiber.ErrNotFound
		}
	}
	c.Type(path.Ext(name))
	return c.Send(data)
}

// handleError renders every error as {"error": message}.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error("http: request failed", slog.String("path", c.Path()), slog.Any("error", err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("http request",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Duration("took", time.Since(start)),
		slog.Any("error", err))
	return err
}
