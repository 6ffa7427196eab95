package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"cryptocast/internal/app"
)

const (
	readTimeout = 30 * time.Second
	idleTimeout = 120 * time.Second
	// Generation sleeps in proportion to the requested duration.
	writeTimeout = 5 * time.Minute
)

// Server exposes the service over a JSON API under /api/v1.
type Server struct {
	app *fiber.App
	svc *app.Service
	now func() time.Time
}

func New(svc *app.Service) *Server {
	f := fiber.New(fiber.Config{
		AppName:               "cryptocast",
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           idleTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
		// Route params and bodies end up in session state.
		Immutable: true,
	})

	s := &Server{app: f, svc: svc, now: time.Now}

	f.Use(recover.New())
	f.Use(requestLogger())
	s.registerRoutes()

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
