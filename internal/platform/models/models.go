package models

type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// WorkflowExecution is one run of an external automation workflow. Records
// are keyed by the engine-assigned execution id.
type WorkflowExecution struct {
	ID           string                 `json:"id"`
	WorkflowID   string                 `json:"workflow_id"`
	Status       ExecutionStatus        `json:"status"`
	StartedAt    int64                  `json:"started_at"`
	CompletedAt  int64                  `json:"completed_at,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
	OutputData   map[string]interface{} `json:"output_data,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	ErrorDetails map[string]interface{} `json:"error_details,omitempty"`
}

type TriggerType string

const (
	TriggerWebhook  TriggerType = "webhook"
	TriggerSchedule TriggerType = "schedule"
	TriggerManual   TriggerType = "manual"
	TriggerEvent    TriggerType = "event"
)

type WorkflowTrigger struct {
	ID         string                 `json:"id"`
	WorkflowID string                 `json:"workflow_id"`
	Type       TriggerType            `json:"type"`
	Conditions map[string]interface{} `json:"conditions,omitempty"`
	Enabled    bool                   `json:"enabled"`
	FireCount  int64                  `json:"fire_count"`
	CreatedAt  int64                  `json:"created_at"`
	UpdatedAt  int64                  `json:"updated_at"`
}
