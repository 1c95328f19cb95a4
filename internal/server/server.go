package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cozy-creator/breed-classifier/internal/api/middleware"
	"github.com/cozy-creator/breed-classifier/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	listenAddr string
	ginEngine  *gin.Engine
	inner      *http.Server
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	gin.SetMode(getGinMode(cfg.Environment))
	r := gin.New()

	// Setup logger middleware
	r.Use(logger.SetLogger(
		logger.WithUTC(true),
		logger.WithSkipPath([]string{"/healthz"}),
	))
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger(log.Named("http")))

	// Every route answers any origin
	r.Use(cors.New(
		cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"X-Requested-With", "Content-Type"},
			MaxAge:          300,
		},
	))

	// Serve static files
	r.Use(static.Serve("/static", static.LocalFile(cfg.PublicDir, false)))
	r.Use(gin.Recovery())

	return &Server{
		listenAddr: cfg.Addr(),
		ginEngine:  r,
		logger:     log,
		inner: &http.Server{
			Handler: r,
			Addr:    cfg.Addr(),
		},
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

func (s *Server) Addr() string {
	return s.listenAddr
}

// Start blocks until the listener fails or Stop is called, in which case it
// returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("Server listening", zap.String("addr", s.listenAddr))
	return s.inner.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s.logger.Info("Stopping server...")

	if err := s.inner.Shutdown(ctx); err != nil {
		return err
	}

	return nil
}

func getGinMode(env string) string {
	switch env {
	case "dev":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
