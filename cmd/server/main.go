package main

import (
	"fmt"
	"log"
	"net/http"

	"pulseboard/internal/api"
	"pulseboard/internal/api/handlers"
	"pulseboard/internal/api/middleware"
	"pulseboard/internal/engine/webhooks"
	"pulseboard/internal/engine/workflows"
	"pulseboard/internal/pkg/logger"
	"pulseboard/internal/platform/auth"
	"pulseboard/internal/platform/config"
	"pulseboard/internal/platform/database"
	"pulseboard/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Stores
	stores := webhooks.Stores{
		Events:     repositories.NewEventRepository(db),
		Endpoints:  repositories.NewEndpointRepository(db),
		Executions: repositories.NewExecutionRepository(db),
		Triggers:   repositories.NewTriggerRepository(db),
	}

	// External collaborators
	engineClient := workflows.NewClient(cfg.Engine)
	workflowCache := workflows.NewCache(cfg.Engine.CacheTTL)

	// Orchestration core
	orchestrator := webhooks.NewOrchestrator(stores, engineClient, workflowCache, cfg.Webhooks)
	if err := orchestrator.Start(); err != nil {
		log.Fatalf("Failed to start orchestrator: %v", err)
	}

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)

	// Handlers
	webhookHandler := handlers.NewWebhookHandler(orchestrator)
	endpointHandler := handlers.NewEndpointHandler(orchestrator.Registry)
	triggerHandler := handlers.NewTriggerHandler(stores.Triggers, orchestrator.Sender)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	rateLimiter := middleware.NewRateLimiter(map[string]int{
		"ingest":    cfg.RateLimit.IngestPerMinute,
		"api_write": cfg.RateLimit.APIWritePerMinute,
	})

	// Router
	deps := &api.Dependencies{
		WebhookHandler:  webhookHandler,
		EndpointHandler: endpointHandler,
		TriggerHandler:  triggerHandler,
		HealthHandler:   healthHandler,
		AuthMiddleware:  authMiddleware,
		RateLimiter:     rateLimiter,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
