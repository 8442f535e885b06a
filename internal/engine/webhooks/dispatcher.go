package webhooks

import (
	"github.com/rs/zerolog/log"

	"pulseboard/internal/engine/workflows"
	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/pkg/metrics"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

// Dispatcher routes a normalized event to its typed handler and records the
// resulting execution state. Handlers are idempotent: the engine delivers
// at-least-once.
type Dispatcher struct {
	executions *repositories.ExecutionRepository
	workflows  *workflows.Cache
}

func NewDispatcher(executions *repositories.ExecutionRepository, cache *workflows.Cache) *Dispatcher {
	return &Dispatcher{executions: executions, workflows: cache}
}

func (d *Dispatcher) Dispatch(event *models.WebhookEvent) error {
	switch n := notificationFrom(event).(type) {
	case ExecutionStarted:
		return d.handleStarted(n)
	case ExecutionCompleted:
		return d.handleCompleted(n)
	case ExecutionFailed:
		return d.handleFailed(n)
	case WorkflowUpdated:
		return d.handleWorkflowUpdated(n)
	case UnknownEvent:
		return d.handleUnknown(n, event)
	default:
		return &errors.DispatchError{EventType: string(event.EventType)}
	}
}

func (d *Dispatcher) handleStarted(n ExecutionStarted) error {
	execution := &models.WorkflowExecution{
		ID:         n.ExecutionID,
		WorkflowID: n.WorkflowID,
		Status:     models.ExecutionRunning,
		Data:       n.Data,
	}
	if err := d.executions.UpsertRunning(execution); err != nil {
		return errors.NewPersistence("insert execution", err)
	}
	return nil
}

func (d *Dispatcher) handleCompleted(n ExecutionCompleted) error {
	updated, err := d.executions.Complete(n.ExecutionID, n.Output)
	if err != nil {
		return errors.NewPersistence("complete execution", err)
	}
	if updated == 0 {
		// Completion for an execution we never saw start. Dropped, not an error.
		log.Debug().Str("execution_id", n.ExecutionID).Msg("completion for unknown execution dropped")
	}
	return nil
}

func (d *Dispatcher) handleFailed(n ExecutionFailed) error {
	updated, err := d.executions.Fail(n.ExecutionID, n.Message, n.Details)
	if err != nil {
		return errors.NewPersistence("fail execution", err)
	}
	if updated == 0 {
		log.Debug().Str("execution_id", n.ExecutionID).Msg("failure for unknown execution dropped")
	}
	return nil
}

func (d *Dispatcher) handleWorkflowUpdated(n WorkflowUpdated) error {
	if d.workflows != nil {
		d.workflows.Invalidate(n.WorkflowID)
	}
	return nil
}

func (d *Dispatcher) handleUnknown(n UnknownEvent, event *models.WebhookEvent) error {
	metrics.UnknownEvents.Inc()
	log.Warn().
		Str("event_id", event.ID).
		Str("workflow_id", n.WorkflowID).
		Msg("event payload matched no known shape")
	return nil
}
