package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	"github.com/KaramelBytes/classmate-cli/internal/server/handler"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

// Deps are the collaborators the HTTP API serves.
type Deps struct {
	Workspace   *workspace.Workspace
	Runtime     ai.Runtime
	Provider    string
	ChatTimeout time.Duration
	Redis       *redis.Client
	Logger      *zap.SugaredLogger
	GinMode     string
}

func NewRouter(d Deps) *gin.Engine {
	if d.GinMode != "" {
		gin.SetMode(d.GinMode)
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	router := gin.New()
	router.Use(requestLogger(log), gin.Recovery())

	healthHandler := handler.NewHealthHandler(d.Workspace, d.Redis, d.Provider)
	classHandler := handler.NewClassHandler(d.Workspace)
	documentHandler := handler.NewDocumentHandler(d.Workspace)
	messageHandler := handler.NewMessageHandler(d.Workspace, d.Runtime, d.ChatTimeout, log)

	router.GET("/healthz", healthHandler.Check)

	v1 := router.Group("/api/v1")
	v1.GET("/classes", classHandler.List)
	v1.POST("/classes", classHandler.Create)
	v1.PUT("/classes/active", classHandler.Select)
	v1.GET("/classes/:name/documents", classHandler.Documents)

	v1.POST("/documents", documentHandler.Upload)
	v1.DELETE("/documents/:id", documentHandler.Remove)

	v1.GET("/messages", messageHandler.List)
	v1.POST("/messages", messageHandler.Send)
	v1.DELETE("/messages", messageHandler.Clear)

	return router
}

// requestLogger writes one structured line per request.
func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// Run serves h on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Infow("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
