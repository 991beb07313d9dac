// Package server собирает HTTP API: маршруты, middleware и http.Server с таймаутами.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/config"
	"serotonyl.ru/hydration/internal/features/hydration"
	"serotonyl.ru/hydration/internal/features/notifications"
	"serotonyl.ru/hydration/internal/features/rewards"
	"serotonyl.ru/hydration/internal/server/middleware"
)

// HealthFunc проверяет доступность хранилища.
type HealthFunc func(ctx context.Context) error

// Handlers — обработчики всех фич.
type Handlers struct {
	Hydration     *hydration.Handler
	Rewards       *rewards.Handler
	Notifications *notifications.Handler
	State         *StateHandler
	Health        HealthFunc
}

// Server — HTTP-сервер приложения.
type Server struct {
	cfg        *config.Config
	engine     *gin.Engine
	httpServer *http.Server
	limiter    *middleware.RateLimiter
}

// New создаёт сервер и регистрирует маршруты.
func New(cfg *config.Config, h Handlers) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	engine := gin.New()
	engine.Use(middleware.Logger(), middleware.Recovery())

	engine.GET("/healthz", healthz(h.Health))

	api := engine.Group("/api", middleware.RateLimit(limiter))
	{
		api.GET("/hydration", h.Hydration.GetToday)
		api.POST("/hydration", h.Hydration.AddGlass)
		api.PUT("/hydration/target", h.Hydration.SetTarget)
		api.GET("/progress", h.Hydration.Progress)

		api.GET("/rewards", h.Rewards.List)
		api.POST("/rewards", h.Rewards.Claim)

		api.GET("/state", h.State.Get)

		if cfg.FeatureTestEmailEnabled {
			api.POST("/test-email", h.Notifications.SendTest)
		}
	}

	return &Server{
		cfg:     cfg,
		engine:  engine,
		limiter: limiter,
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      engine,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
		},
	}
}

// Handler возвращает корневой http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start слушает порт до вызова Shutdown.
func (s *Server) Start() error {
	log.Infof("HTTP-сервер слушает %s", s.cfg.HTTPAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown дожидается завершения активных запросов и останавливает rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Close()
	return s.httpServer.Shutdown(ctx)
}

func healthz(check HealthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				log.WithError(err).Warn("Хранилище недоступно")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
