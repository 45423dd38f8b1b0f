package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pmatancambium/cambium-procedures/internal/access"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// PasswordHeader carries the access password on every /api request.
const PasswordHeader = "X-Access-Password"

// DefaultMaxUploadBytes caps multipart uploads.
const DefaultMaxUploadBytes = 64 << 20

// Config holds server options.
type Config struct {
	// Gate guards the /api routes. The zero Gate admits everything.
	Gate access.Gate

	// Search supplies defaults for fields a request leaves zero.
	Search domain.SearchOptions

	// UploadDir holds uploaded files while they are ingested (default: os temp dir).
	UploadDir string

	// MaxUploadBytes caps multipart uploads (default: 64 MiB).
	MaxUploadBytes int64
}

// Server serves the HTTP API.
type Server struct {
	ports  *Ports
	cfg    Config
	engine *gin.Engine
}

// NewServer creates the API server and registers its routes.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.MaxMultipartMemory = cfg.MaxUploadBytes

	s := &Server{ports: ports, cfg: cfg, engine: engine}
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api", s.requireAccess())
	{
		api.POST("/search", s.search)
		api.POST("/ask", s.ask)
		api.POST("/documents", s.uploadDocument)
		api.GET("/documents", s.listDocuments)
		api.GET("/documents/:source", s.getDocument)
		api.GET("/questions", s.listQuestions)
		api.DELETE("/questions/:id", s.deleteQuestion)
	}
}

// requireAccess checks the password header when the gate is enabled.
func (s *Server) requireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.cfg.Gate.Check(c.GetHeader(PasswordHeader)); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
