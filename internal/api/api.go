// Package api serves the dashboard payload over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/j-veylop/vahan-dashboard-tui/internal/logger"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// Backend provides the data behind the API. *services.Manager implements it.
type Backend interface {
	Payload(ctx context.Context) (*models.DashboardPayload, error)
	Records(ctx context.Context, filter models.RecordFilter) ([]models.RegistrationRecord, error)
}

// Options configures the HTTP server.
type Options struct {
	CORSOrigins []string
}

// Server is the HTTP facade over a Backend.
type Server struct {
	router  *echo.Echo
	backend Backend
}

// New builds the router with its middleware and routes.
func New(backend Backend, opts Options) *Server {
	s := &Server{router: echo.New(), backend: backend}

	s.router.HideBanner = true
	s.router.HidePort = true
	s.router.Validator = NewValidator()
	s.router.HTTPErrorHandler = httpErrorHandler

	s.router.Use(middleware.Recover())
	s.router.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogError:      true,
		LogValuesFunc: logRequest,
	}))
	s.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	s.router.GET("/healthz", s.health)

	api := s.router.Group("/api")
	api.GET("/data", s.getData)
	api.GET("/summary", s.getSummary)
	api.GET("/manufacturers", s.getManufacturers)
	api.GET("/records", s.getRecords)

	return s
}

func logRequest(_ echo.Context, v middleware.RequestLoggerValues) error {
	args := []any{
		"method", v.Method,
		"uri", v.URI,
		"status", v.Status,
		"latency", v.Latency.Round(time.Microsecond),
	}
	if v.Error != nil {
		logger.Warn("request failed", append(args, "error", v.Error)...)
		return nil
	}
	logger.Debug("request", args...)
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until Shutdown. A clean shutdown returns nil.
func (s *Server) Start(addr string) error {
	logger.Info("HTTP API listening", "addr", addr)
	if err := s.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.router.Shutdown(ctx)
}
