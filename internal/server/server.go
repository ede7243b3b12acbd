package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ytfetch/media-api/internal/config"
	"github.com/ytfetch/media-api/internal/fetch"
	"github.com/ytfetch/media-api/internal/history"
	"github.com/ytfetch/media-api/internal/ratelimit"
	"github.com/ytfetch/media-api/internal/workspace"
)

// Version is set during build via -ldflags "-X .../internal/server.Version=X.Y.Z"
var Version = "dev"

// HTTP server timeouts. Write timeout stays zero: download responses stream
// for as long as the media takes.
const (
	readTimeout = 30 * time.Second
	idleTimeout = 120 * time.Second
)

// Server is the HTTP front of the service.
type Server struct {
	cfg       *config.Config
	fetcher   fetch.Fetcher
	workspace *workspace.Manager
	store     *history.Store
	limiter   ratelimit.Limiter
	log       *slog.Logger

	engine  *gin.Engine
	httpSrv *http.Server
}

// New wires the gin engine, middleware, and routes. store may be nil when
// history is disabled.
func New(cfg *config.Config, fetcher fetch.Fetcher, ws *workspace.Manager, store *history.Store, limiter ratelimit.Limiter, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		cfg:       cfg,
		fetcher:   fetcher,
		workspace: ws,
		store:     store,
		limiter:   limiter,
		log:       log,
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.corsMiddleware())
	s.engine.Use(s.loggingMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/info", s.handleInfo)
	api.GET("/channel-info", s.handleChannelInfo)
	api.GET("/download/audio", s.handleDownloadAudio)
	api.GET("/download/video", s.handleDownloadVideo)
	api.POST("/download/batch", s.handleDownloadBatch)
	if cfg.Server.AdminToken != "" {
		api.GET("/history", s.adminAuthMiddleware(), s.handleHistory)
	}

	s.httpSrv = &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      s.engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: 0,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info("server starting", "addr", s.cfg.Server.ListenAddr, "version", Version)
	return s.httpSrv.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
