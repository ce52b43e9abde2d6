// Package http serves the single-screen spend permission UI and its JSON API.
package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	spendpermission "github.com/base-spend-permission/go"
)

// DefaultAllowance is prefilled in the allowance input
const DefaultAllowance = "0.00009"

// Server exposes a spendpermission.Client over HTTP
type Server struct {
	client  *spendpermission.Client
	page    PageConfig
	logger  *zap.Logger
	engine  *gin.Engine
	httpSrv *http.Server
}

// ServerOption configures the server
type ServerOption func(*Server)

// WithPageConfig sets the UI texts and defaults
func WithPageConfig(config PageConfig) ServerOption {
	return func(s *Server) {
		s.page = config
	}
}

// WithServerLogger sets the logger. Defaults to a no-op logger.
func WithServerLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates the HTTP front-end for client
func NewServer(client *spendpermission.Client, opts ...ServerOption) *Server {
	s := &Server{
		client: client,
		page:   DefaultPageConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.newRouter()
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(template.Must(template.New("index").Parse(indexTemplate)))

	r.GET("/", s.handleIndex)
	api := r.Group("/api")
	{
		api.GET("/session", s.handleSession)
		api.POST("/connect", s.handleConnect)
		api.POST("/permissions", s.handleCreatePermission)
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
