// Package web exposes the HTTP surface of the voice agent: the chat
// endpoint, the websocket echo channel, the static frontend and a small
// health probe.
package web

import (
	"context"
	"log/slog"
	"net"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"

	"voiceagent/pkg/agent"
)

// Options configures the web server.
type Options struct {
	// StaticDir holds the frontend; index.html is served from it on GET /.
	StaticDir string

	// Debug enables per-request access logging.
	Debug bool

	Logger *slog.Logger
}

// Server wires the agent pipeline into a fiber app.
type Server struct {
	app       *fiber.App
	agent     *agent.Agent
	staticDir string
	logger    *slog.Logger
}

// NewServer creates the web server and registers all routes.
func NewServer(a *agent.Agent, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		agent:     a,
		staticDir: opts.StaticDir,
		logger:    log.With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "voice-agent",
		DisableStartupMessage: true,
		BodyLimit:             25 * 1024 * 1024, // uploaded audio clips
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	if opts.Debug {
		app.Use(logger.New())
	}

	app.Get("/", s.handleIndex)
	app.Get("/health", s.handleHealth)
	app.Post("/agent/chat/:session_id", s.handleChat)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.handleEchoWS))

	s.app = app
	return s
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the given address until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Serve serves on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
