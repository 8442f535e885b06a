package webhooks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/platform/models"
)

// Validator turns a raw inbound body into a normalized WebhookEvent.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the transport contract and produces a pending event. The
// payload is sanitized before it ever reaches the store.
func (v *Validator) Validate(contentType string, body []byte) (*models.WebhookEvent, error) {
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return nil, errors.NewValidation("missing content type")
	}
	if len(body) == 0 {
		return nil, errors.NewValidation("empty body")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewValidation("malformed json")
	}

	workflowID := extractWorkflowID(payload)
	if workflowID == "" {
		return nil, errors.NewValidation("missing workflowId")
	}

	event := &models.WebhookEvent{
		ID:         newEventID(),
		WorkflowID: workflowID,
		EventType:  ClassifyEventType(payload),
		Payload:    Sanitize(payload),
		Timestamp:  time.Now().UTC(),
		Source:     models.SourceExternalEngine,
		Status:     models.EventPending,
		RetryCount: 0,
	}

	if executionID := extractExecutionID(payload); executionID != "" {
		event.Metadata = map[string]interface{}{models.MetaExecutionID: executionID}
	}

	return event, nil
}

// ClassifyEventType derives the event type from the payload shape. A shape
// matching none of the known contracts classifies as unknown rather than
// being forced into execution_started.
func ClassifyEventType(payload map[string]interface{}) models.EventType {
	if execution, ok := payload["execution"].(map[string]interface{}); ok {
		switch execution["status"] {
		case "running":
			return models.EventExecutionStarted
		case "success":
			return models.EventExecutionCompleted
		case "error":
			return models.EventExecutionFailed
		}
	} else if _, ok := payload["workflow"].(map[string]interface{}); ok {
		return models.EventWorkflowUpdated
	}
	return models.EventUnknown
}

func extractWorkflowID(payload map[string]interface{}) string {
	if id, ok := payload["workflowId"].(string); ok && id != "" {
		return id
	}
	if workflow, ok := payload["workflow"].(map[string]interface{}); ok {
		if id, ok := workflow["id"].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

func extractExecutionID(payload map[string]interface{}) string {
	if id, ok := payload["executionId"].(string); ok && id != "" {
		return id
	}
	if execution, ok := payload["execution"].(map[string]interface{}); ok {
		if id, ok := execution["id"].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// newEventID builds a collision-resistant event id: millisecond timestamp
// plus a random suffix.
func newEventID() string {
	return fmt.Sprintf("evt_%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
