// Package web serves the browser terminal and its command API over gin.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"systrack/internal/config"
	"systrack/internal/dispatch"
)

//go:embed static
var assets embed.FS

type commandRequest struct {
	Command string `json:"command"`
}

// commandResponse is the envelope every API reply uses. Error is null on
// success, a message otherwise.
type commandResponse struct {
	Output string  `json:"output"`
	Error  *string `json:"error"`
}

func errText(msg string) *string {
	return &msg
}

// Server owns the router, the verb registry and the rate limiter.
type Server struct {
	cfg      *config.Config
	registry *dispatch.Registry
	limiter  *RateLimiter
	engine   *gin.Engine
}

// New wires the router. The registry is injected so tests can run the
// full HTTP surface against fake dependencies. The caller picks the gin
// mode before constructing the server.
func New(cfg *config.Config, registry *dispatch.Registry) (*Server, error) {
	index, err := assets.ReadFile("static/index.html")
	if err != nil {
		return nil, fmt.Errorf("embedded terminal page missing: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		registry: registry,
		limiter:  NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}

	r := gin.New()
	r.Use(Recovery())
	r.Use(RequestLog())
	r.Use(SecurityHeaders())
	r.Use(s.limiter.Middleware())

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/command", s.handleCommand)

	s.engine = r
	return s, nil
}

// Router exposes the configured engine.
func (s *Server) Router() http.Handler {
	return s.engine
}

func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, commandResponse{
			Output: "",
			Error:  errText("No command provided"),
		})
		return
	}

	output, err := s.registry.Dispatch(c.Request.Context(), req.Command)
	if err != nil {
		c.JSON(http.StatusInternalServerError, commandResponse{
			Output: "",
			Error:  errText(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, commandResponse{Output: output})
}

// Run serves until ctx is cancelled or an interrupt arrives, then shuts
// down gracefully with a bounded drain window.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:           s.cfg.ListenAddr,
		Handler:        s.engine,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web server listening", "addr", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	slog.Info("shutting down web server")
	s.limiter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("web server exited")
	return nil
}
