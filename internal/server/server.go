package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/config"
	"github.com/pageza/cookbook/internal/api"
	"github.com/pageza/cookbook/internal/cache"
	"github.com/pageza/cookbook/internal/logger"
)

// Server wraps the gin router and the HTTP listener.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router, installs the page templates and wires the API
// onto it.
func New(cfg *config.Config, db *gorm.DB, store cache.Store) *Server {
	router := gin.Default()
	router.Use(cors.Default())
	router.SetHTMLTemplate(api.PageTemplates())

	api.SetupAPI(router, db, store, cfg)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerAddr(),
			Handler: router,
		},
	}
}

// Start serves HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
