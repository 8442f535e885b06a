package main

import (
	"log"
	"time"

	"pulseboard/internal/engine/webhooks"
	"pulseboard/internal/engine/workflows"
	"pulseboard/internal/pkg/logger"
	"pulseboard/internal/platform/config"
	"pulseboard/internal/platform/database"
	"pulseboard/internal/platform/repositories"
	"pulseboard/internal/workers"
)

// The worker owns retry recovery: it scans for pending events whose
// persisted due time has passed and runs them through its own processor.
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

	stores := webhooks.Stores{
		Events:     repositories.NewEventRepository(db),
		Endpoints:  repositories.NewEndpointRepository(db),
		Executions: repositories.NewExecutionRepository(db),
		Triggers:   repositories.NewTriggerRepository(db),
	}

	engineClient := workflows.NewClient(cfg.Engine)
	workflowCache := workflows.NewCache(cfg.Engine.CacheTTL)
	orchestrator := webhooks.NewOrchestrator(stores, engineClient, workflowCache, cfg.Webhooks)

	log.Println("Starting retry recovery worker...")

	interval := cfg.Webhooks.RecoveryInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	workers.RecoverRetries(orchestrator.Processor)
	for range ticker.C {
		workers.RecoverRetries(orchestrator.Processor)
	}
}
