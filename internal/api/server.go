package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fclimits/app"
	"fclimits/internal"

	"github.com/gin-gonic/gin"
)

// Server exposes the limit service over HTTP
type Server struct {
	router *gin.Engine
	logger *internal.Logger
}

// NewServer creates the HTTP server and registers its routes
func NewServer(service *app.LimitService, ginMode string, logger *internal.Logger) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{router: gin.New(), logger: logger}
	s.router.Use(gin.Recovery(), s.requestLogger())

	handler := NewLimitsHandler(service)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := s.router.Group("/v1")
	v1.GET("/limits", handler.GetLimits)
	v1.GET("/belt", handler.GetBelt)

	return s
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
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
		s.logger.Info("[Server] shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("[Server] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(), c.Writer.Status(), time.Since(start))
	}
}
