package webhooks

import "pulseboard/internal/platform/models"

// Notification is the typed form of an event handed to the dispatcher. One
// variant per event type, each carrying exactly the fields its handler
// needs, so handlers never dig through the raw payload themselves.
type Notification interface {
	notification()
}

type ExecutionStarted struct {
	WorkflowID  string
	ExecutionID string
	Data        map[string]interface{}
}

type ExecutionCompleted struct {
	ExecutionID string
	Output      map[string]interface{}
}

type ExecutionFailed struct {
	ExecutionID string
	Message     string
	Details     map[string]interface{}
}

type WorkflowUpdated struct {
	WorkflowID string
}

// UnknownEvent is a payload whose shape matched no known contract.
type UnknownEvent struct {
	WorkflowID string
}

func (ExecutionStarted) notification()   {}
func (ExecutionCompleted) notification() {}
func (ExecutionFailed) notification()    {}
func (WorkflowUpdated) notification()    {}
func (UnknownEvent) notification()       {}

// notificationFrom rebuilds the typed notification from a stored event, so
// retries dispatch identically to first attempts.
func notificationFrom(event *models.WebhookEvent) Notification {
	switch event.EventType {
	case models.EventExecutionStarted:
		data, _ := event.Payload["data"].(map[string]interface{})
		return ExecutionStarted{
			WorkflowID:  event.WorkflowID,
			ExecutionID: executionID(event),
			Data:        data,
		}
	case models.EventExecutionCompleted:
		output, _ := event.Payload["data"].(map[string]interface{})
		return ExecutionCompleted{
			ExecutionID: executionID(event),
			Output:      output,
		}
	case models.EventExecutionFailed:
		message := "execution failed"
		if m, ok := event.Payload["error"].(string); ok && m != "" {
			message = m
		}
		details, _ := event.Payload["error"].(map[string]interface{})
		if details != nil {
			if m, ok := details["message"].(string); ok && m != "" {
				message = m
			}
		}
		return ExecutionFailed{
			ExecutionID: executionID(event),
			Message:     message,
			Details:     details,
		}
	case models.EventWorkflowUpdated:
		return WorkflowUpdated{WorkflowID: event.WorkflowID}
	default:
		return UnknownEvent{WorkflowID: event.WorkflowID}
	}
}

// executionID falls back to the event id so a start event without an
// engine-assigned execution id still produces a keyable record.
func executionID(event *models.WebhookEvent) string {
	if id := event.ExecutionID(); id != "" {
		return id
	}
	return event.ID
}
