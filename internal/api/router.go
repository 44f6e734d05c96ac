package api

import (
	"github.com/KarthicSuRa/mcm-alerts/internal/api/handlers"
	"github.com/KarthicSuRa/mcm-alerts/internal/api/middleware"
	"github.com/KarthicSuRa/mcm-alerts/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	Config  *config.Config
	Router  *gin.Engine
	handler *handlers.Handler
}

func NewServer(cfg *config.Config, handler *handlers.Handler, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	server := &Server{
		Config:  cfg,
		Router:  router,
		handler: handler,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", handlers.HealthCheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Webhook ingestion is open to third-party senders; it is validated by
	// source id and throttled per source.
	s.Router.POST("/api/v1/webhooks",
		middleware.RateLimit(s.Config.Webhook.RatePerSecond, s.Config.Webhook.RateBurst),
		s.handler.ReceiveWebhook,
	)

	// Operator API
	api := s.Router.Group("/api/v1")
	api.Use(middleware.AuthRequired(s.Config.Auth.JWTSecret))
	{
		api.GET("/sites", s.handler.ListSites)
		api.POST("/sites", s.handler.CreateSite)
		api.GET("/sites/:id", s.handler.GetSite)
		api.PUT("/sites/:id/pause", s.handler.PauseSite)
		api.PUT("/sites/:id/resume", s.handler.ResumeSite)

		api.GET("/sources", s.handler.ListWebhookSources)
		api.POST("/sources", s.handler.CreateWebhookSource)

		api.GET("/topics", s.handler.ListTopics)
		api.POST("/topics", s.handler.CreateTopic)

		api.GET("/notifications", s.handler.ListNotifications)
		api.GET("/notifications/:id", s.handler.GetNotification)
		api.PUT("/notifications/:id/acknowledge", s.handler.AcknowledgeNotification)
		api.PUT("/notifications/:id/resolve", s.handler.ResolveNotification)

		api.POST("/monitor/run", s.handler.TriggerMonitorRun)
	}
}
