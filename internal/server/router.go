package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/peakform/peakform-backend/internal/handlers"
  "github.com/peakform/peakform-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware    *middleware.AuthMiddleware
  PrepHandler       *handlers.PrepHandler
  ProtocolHandler   *handlers.ProtocolHandler
  InstanceHandler   *handlers.InstanceHandler
  ComplianceHandler *handlers.ComplianceHandler
  PeakWeekHandler   *handlers.PeakWeekHandler
  SSEHandler        *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("peakform"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.RequireAuth())
  // SSE
  api.GET("/sse/stream", cfg.SSEHandler.SSEStream)
  // Contest preps
  api.POST("/preps", cfg.PrepHandler.CreatePrep)
  api.GET("/preps", cfg.PrepHandler.ListPreps)
  api.GET("/preps/:id", cfg.PrepHandler.GetPrep)
  api.PUT("/preps/:id/plans", cfg.PrepHandler.UpdatePlans)
  // Protocols
  api.POST("/preps/:id/protocols", cfg.ProtocolHandler.CreateProtocol)
  api.GET("/preps/:id/protocols", cfg.ProtocolHandler.ListProtocols)
  api.GET("/protocols/:id", cfg.ProtocolHandler.GetProtocol)
  api.PUT("/protocols/:id/active", cfg.ProtocolHandler.SetActive)
  api.DELETE("/protocols/:id", cfg.ProtocolHandler.DeleteProtocol)
  api.POST("/protocols/:id/execute", cfg.ProtocolHandler.ExecuteProtocol)
  // Instances
  api.GET("/preps/:id/instances", cfg.InstanceHandler.ListInstances)
  api.PUT("/instances/:id/completed", cfg.InstanceHandler.CompleteInstance)
  // Compliance
  api.GET("/preps/:id/compliance", cfg.ComplianceHandler.GetCompliance)
  // Peak week
  api.PUT("/preps/:id/contest-date", cfg.PeakWeekHandler.SetContestDate)
  api.GET("/preps/:id/peak-week", cfg.PeakWeekHandler.GetPeakWeek)
  api.PUT("/preps/:id/peak-week/:day", cfg.PeakWeekHandler.RecordObservation)

  return router
}
