package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/utils"
  "github.com/peakform/peakform-backend/internal/db"
  "github.com/peakform/peakform-backend/internal/observability"
  "github.com/peakform/peakform-backend/internal/repos"
  "github.com/peakform/peakform-backend/internal/services"
  "github.com/peakform/peakform-backend/internal/handlers"
  "github.com/peakform/peakform-backend/internal/middleware"
  "github.com/peakform/peakform-backend/internal/server"
  "github.com/peakform/peakform-backend/internal/sse"
  redisclient "github.com/peakform/peakform-backend/internal/clients/redis"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  sweepMinutes := utils.GetEnvAsInt("EXECUTION_SWEEP_INTERVAL_MINUTES", 15, log)

  // Tracing
  ctx := context.Background()
  otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: "peakform",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer otelShutdown(ctx)
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  prepRepo := repos.NewContestPrepRepo(thePG, log)
  protocolRepo := repos.NewAutomatedProtocolRepo(thePG, log)
  recordRepo := repos.NewExecutionRecordRepo(thePG, log)
  instanceRepo := repos.NewProtocolInstanceRepo(thePG, log)
  peakWeekRepo := repos.NewPeakWeekRepo(thePG, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)
  var emitter services.SSEEmitter = &services.HubEmitter{Hub: sseHub}
  if bus, busErr := redisclient.NewSSEBus(log); busErr != nil {
    log.Warn("Redis SSE bus unavailable, events stay in-process", "error", busErr)
  } else {
    if err := bus.StartForwarder(ctx, sseHub.Broadcast); err != nil {
      log.Warn("Redis SSE forwarder failed to start", "error", err)
    } else {
      emitter = &services.RedisEmitter{Bus: bus, Log: log}
    }
  }

  // Services
  log.Info("Setting up Services from main...")
  prepService := services.NewContestPrepService(thePG, log, prepRepo, peakWeekRepo)
  protocolService := services.NewProtocolService(thePG, log, prepRepo, protocolRepo)
  executionService := services.NewExecutionService(thePG, log, prepRepo, protocolRepo, recordRepo, instanceRepo, emitter)
  instanceService := services.NewInstanceService(thePG, log, prepRepo, instanceRepo, emitter)
  complianceService := services.NewComplianceService(thePG, log, prepRepo, instanceRepo)
  peakWeekService := services.NewPeakWeekService(thePG, log, prepRepo, peakWeekRepo, emitter)
  executionService.StartWorker(ctx, time.Duration(sweepMinutes)*time.Minute)

  // Handlers
  log.Info("Setting up handlers from main...")
  prepHandler := handlers.NewPrepHandler(log, prepService)
  protocolHandler := handlers.NewProtocolHandler(log, protocolService, executionService)
  instanceHandler := handlers.NewInstanceHandler(log, instanceService)
  complianceHandler := handlers.NewComplianceHandler(log, complianceService)
  peakWeekHandler := handlers.NewPeakWeekHandler(log, peakWeekService)
  sseHandler := handlers.NewSSEHandler(log, sseHub)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:    authMiddleware,
    PrepHandler:       prepHandler,
    ProtocolHandler:   protocolHandler,
    InstanceHandler:   instanceHandler,
    ComplianceHandler: complianceHandler,
    PeakWeekHandler:   peakWeekHandler,
    SSEHandler:        sseHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
