package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docketwatch/docketwatch/app/cfg"
)

// NewServer builds the HTTP handler: a health endpoint plus static
// serving of the writer's output directory.
func NewServer(outputDir string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		started := time.Now()
		c.Next()
		slog.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(started).Round(time.Millisecond))
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": cfg.GetVersion(),
		})
	})

	// Everything else is the generated site.
	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(outputDir))))

	return r
}

// Run serves the handler until the context is cancelled, then shuts
// down gracefully.
func Run(ctx context.Context, port string, outputDir string) error {
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      NewServer(outputDir),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", port, "output", outputDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
