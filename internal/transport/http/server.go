package http

import (
	"context"
	"errors"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandevgo/chatlens/internal/config"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/internal/service/command"
	"github.com/sandevgo/chatlens/pkg/log"
)

// Engine is what the HTTP API needs from the engine.
type Engine interface {
	command.Engine
	Groups(chatID, dateKey string) ([]core.Group, error)
}

// Server exposes the capture and analysis API used by browser capture
// scripts and the popup UI.
type Server struct {
	app    *fiber.App
	engine Engine
	cfg    *config.HTTPConfig
}

// NewServer builds the fiber app. reg, when set, receives the request
// metrics and is served at /metrics together with the engine metrics.
func NewServer(ctx context.Context, cfg *config.HTTPConfig, engine Engine, reg *prometheus.Registry) *Server {
	app := fiber.New(fiber.Config{
		AppName:               core.AppName,
		ReadTimeout:           cfg.ReadTimeout,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s := &Server{app: app, engine: engine, cfg: cfg}

	app.Use(recover.New())
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Use(accessLog)

	if reg != nil {
		prom := fiberprometheus.NewWithRegistry(reg, "chatlens", "chatlens", "http", nil)
		prom.RegisterAt(app, "/metrics")
		app.Use(prom.Middleware)
	}

	app.Get("/healthz", s.health)

	api := app.Group("/api")
	api.Post("/messages", s.submitMessage)
	api.Post("/context", s.setContext)
	api.Get("/contexts", s.contexts)
	api.Post("/query", s.query)
	api.Post("/ask", s.ask)
	api.Get("/chats/:id/groups", s.groups)

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http api")
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.FromCtx(c.UserContext()).Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("http request")
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(core.Failure(err))
}
