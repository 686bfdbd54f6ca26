package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/askdesk/internal/core/ports/driving"
	"github.com/custodia-labs/askdesk/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Config holds the HTTP adapter settings.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// WebhookSecret guards POST /api/docs/index.
	WebhookSecret string

	// StaticDir holds index.html and other UI assets. Missing is fine.
	StaticDir string

	// AccessLog enables gin's request logger.
	AccessLog bool
}

// Server serves the askdesk HTTP API.
type Server struct {
	cfg     Config
	answers driving.AnswerService
	docs    driving.DocumentService
	health  driving.HealthService
	router  *gin.Engine
}

// NewServer builds the router and registers all routes.
func NewServer(
	cfg Config,
	answers driving.AnswerService,
	docs driving.DocumentService,
	health driving.HealthService,
) *Server {
	s := &Server{
		cfg:     cfg,
		answers: answers,
		docs:    docs,
		health:  health,
	}
	s.router = s.setupRoutes()
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if s.cfg.AccessLog {
		router.Use(gin.LoggerWithWriter(gin.DefaultWriter))
	}
	router.Use(RequestIDMiddleware(), CORSMiddleware(), RequestSizeLimitMiddleware(MaxBodyBytes))

	router.GET("/health", s.HealthHandler)
	router.GET("/", s.RootHandler)

	apiRoutes := router.Group("/api")
	{
		apiRoutes.POST("/chat", s.ChatHandler)
		apiRoutes.POST("/docs/index", s.IndexDocumentHandler)
		apiRoutes.GET("/docs/list", s.ListDocumentsHandler)
	}

	if dirExists(s.cfg.StaticDir) {
		router.Static("/static", s.cfg.StaticDir)
	}

	return router
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func dirExists(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func (s *Server) indexPage() string {
	if s.cfg.StaticDir == "" {
		return ""
	}
	path := filepath.Join(s.cfg.StaticDir, "index.html")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
