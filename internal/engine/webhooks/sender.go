package webhooks

import (
	"time"

	"github.com/rs/zerolog/log"

	"pulseboard/internal/engine/workflows"
	"pulseboard/internal/pkg/metrics"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

// Sender is the outbound path: a dashboard trigger becomes an engine
// execute call and a recorded event. Outbound calls are never retried here;
// retrying is the caller's decision.
type Sender struct {
	engine   *workflows.Client
	events   *repositories.EventRepository
	triggers *repositories.TriggerRepository
}

func NewSender(engine *workflows.Client, events *repositories.EventRepository, triggers *repositories.TriggerRepository) *Sender {
	return &Sender{engine: engine, events: events, triggers: triggers}
}

// Send asks the engine to run workflowID and records the attempt as an
// event. Returns true iff the engine accepted the run.
func (s *Sender) Send(workflowID string, data map[string]interface{}, triggerType models.TriggerType) (bool, string) {
	event := &models.WebhookEvent{
		ID:         newEventID(),
		WorkflowID: workflowID,
		EventType:  models.EventExecutionStarted,
		Payload:    Sanitize(map[string]interface{}{"data": data}),
		Timestamp:  time.Now().UTC(),
		Source:     models.SourceDashboard,
		Metadata:   map[string]interface{}{models.MetaTriggerType: string(triggerType)},
	}

	result, err := s.engine.Execute(workflowID, data)
	if err != nil {
		event.Status = models.EventFailed
		metrics.EngineCalls.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("workflow_id", workflowID).Msg("engine execute failed")
	} else {
		event.Status = models.EventProcessed
		metrics.EngineCalls.WithLabelValues("success").Inc()
		if result.ExecutionID != "" {
			event.Metadata[models.MetaExecutionID] = result.ExecutionID
		}
	}

	// The event is recorded either way; a lost audit row is worse than a
	// duplicate engine run.
	if insertErr := s.events.Insert(event); insertErr != nil {
		log.Error().Err(insertErr).Str("event_id", event.ID).Msg("failed to record outbound event")
	}

	s.recordFire(workflowID, triggerType)

	return err == nil, event.ID
}

// recordFire bumps the fire counter on matching enabled triggers.
func (s *Sender) recordFire(workflowID string, triggerType models.TriggerType) {
	if s.triggers == nil {
		return
	}
	triggers, err := s.triggers.FindEnabled(workflowID, triggerType)
	if err != nil {
		log.Warn().Err(err).Str("workflow_id", workflowID).Msg("trigger lookup failed")
		return
	}
	for _, trigger := range triggers {
		if err := s.triggers.IncrementFireCount(trigger.ID); err != nil {
			log.Warn().Err(err).Str("trigger_id", trigger.ID).Msg("fire count update failed")
		}
	}
}
