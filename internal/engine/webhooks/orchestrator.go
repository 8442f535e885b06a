package webhooks

import (
	"time"

	"pulseboard/internal/engine/workflows"
	"pulseboard/internal/platform/config"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

// healthWindow is the trailing window the status query reports over.
const healthWindow = 24 * time.Hour

// Orchestrator is one explicitly constructed webhook core: registry, queue,
// dispatcher and sender share nothing with any other instance, so tests can
// run several side by side.
type Orchestrator struct {
	Validator *Validator
	Registry  *Registry
	Processor *Processor
	Sender    *Sender

	events *repositories.EventRepository
}

type Stores struct {
	Events     *repositories.EventRepository
	Endpoints  *repositories.EndpointRepository
	Executions *repositories.ExecutionRepository
	Triggers   *repositories.TriggerRepository
}

func NewOrchestrator(stores Stores, engine *workflows.Client, cache *workflows.Cache, cfg config.WebhooksConfig) *Orchestrator {
	dispatcher := NewDispatcher(stores.Executions, cache)
	processor := NewProcessor(stores.Events, dispatcher)
	if cfg.MaxAttempts > 0 {
		processor.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.RetryDelay > 0 {
		processor.RetryDelay = cfg.RetryDelay
	}

	return &Orchestrator{
		Validator: NewValidator(),
		Registry:  NewRegistry(stores.Endpoints),
		Processor: processor,
		Sender:    NewSender(engine, stores.Events, stores.Triggers),
		events:    stores.Events,
	}
}

// Start loads the endpoint registry and re-enqueues retries that were due
// while the process was down.
func (o *Orchestrator) Start() error {
	if err := o.Registry.Load(); err != nil {
		return err
	}
	_, err := o.Processor.Recover(time.Now())
	return err
}

type Status struct {
	ActiveEndpoints int64  `json:"activeEndpoints"`
	QueuedEvents    int    `json:"queuedEvents"`
	ProcessedEvents int    `json:"processedEvents"`
	FailedEvents    int    `json:"failedEvents"`
	SystemHealth    string `json:"systemHealth"`
}

// Status summarizes the trailing 24 hours. Health is the processed share of
// decided outcomes; events still pending are in flight, not outcomes.
func (o *Orchestrator) Status() (*Status, error) {
	counts, err := o.events.StatusCounts(time.Now().Add(-healthWindow))
	if err != nil {
		return nil, err
	}

	status := &Status{
		ActiveEndpoints: o.Registry.ActiveCount(),
		QueuedEvents:    counts[models.EventPending],
		ProcessedEvents: counts[models.EventProcessed],
		FailedEvents:    counts[models.EventFailed],
	}

	total := status.ProcessedEvents + status.FailedEvents
	ratio := 1.0
	if total > 0 {
		ratio = float64(status.ProcessedEvents) / float64(total)
	}
	switch {
	case ratio >= 0.95:
		status.SystemHealth = "healthy"
	case ratio >= 0.80:
		status.SystemHealth = "warning"
	default:
		status.SystemHealth = "critical"
	}

	return status, nil
}
