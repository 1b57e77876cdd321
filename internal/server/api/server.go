// Package api is the HTTP surface of the server: the admin object-storage
// endpoint, its bearer-token middleware and the metrics endpoint.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/assetvault/internal/common"
	"github.com/dmitrijs2005/assetvault/internal/logging"
)

// ObjectStoragePath is the single route serving presign, delete and
// download URL requests.
const ObjectStoragePath = "/admin/api/object-storage"

const shutdownTimeout = 10 * time.Second

// Options configure the router.
type Options struct {
	SecretKey    []byte
	RequiredRole string
	CORSOrigin   string
	// Metrics, when set, is served on GET /metrics without authentication.
	Metrics http.Handler
}

// HTTPServer runs the gin engine until its context is cancelled.
type HTTPServer struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, assets AssetService, opts Options) *HTTPServer {
	logger := l.With("module", "http_server")
	return &HTTPServer{
		address: address,
		engine:  NewRouter(assets, logger, opts),
		logger:  logger,
	}
}

// NewRouter builds the engine. Unknown methods on a known path answer 405.
func NewRouter(assets AssetService, logger logging.Logger, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), requestLogger(logger))

	corsCfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", common.AuthorizationHeaderName},
		MaxAge:       12 * time.Hour,
	}
	if opts.CORSOrigin == "" || opts.CORSOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{opts.CORSOrigin}
	}
	r.Use(cors.New(corsCfg))

	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	h := &handler{assets: assets, logger: logger}
	g := r.Group(ObjectStoragePath, requireRole(opts.SecretKey, opts.RequiredRole))
	g.PUT("", h.presign)
	g.DELETE("", h.delete)
	g.GET("", h.downloadURL)

	return r
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
