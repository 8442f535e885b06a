package models

import "time"

type EventType string

const (
	EventExecutionStarted   EventType = "execution_started"
	EventExecutionCompleted EventType = "execution_completed"
	EventExecutionFailed    EventType = "execution_failed"
	EventWorkflowUpdated    EventType = "workflow_updated"
	EventUnknown            EventType = "unknown"
)

type EventSource string

const (
	SourceExternalEngine EventSource = "external_engine"
	SourceDashboard      EventSource = "dashboard"
)

type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventProcessed EventStatus = "processed"
	EventFailed    EventStatus = "failed"
)

// Metadata keys set by the transport layer and the sender.
const (
	MetaExecutionID = "execution_id"
	MetaUserAgent   = "user_agent"
	MetaRemoteAddr  = "remote_addr"
	MetaTriggerType = "trigger_type"
)

// WebhookEvent is one inbound or outbound webhook notification. The
// processor owns Status/RetryCount/NextAttemptAt once the event is queued.
type WebhookEvent struct {
	ID            string                 `json:"id"`
	WorkflowID    string                 `json:"workflow_id"`
	EventType     EventType              `json:"event_type"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	Source        EventSource            `json:"source"`
	Status        EventStatus            `json:"status"`
	RetryCount    int                    `json:"retry_count"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	NextAttemptAt int64                  `json:"next_attempt_at,omitempty"` // unix seconds, 0 when no retry is due
}

// ExecutionID returns the execution id carried in metadata, if any.
func (e *WebhookEvent) ExecutionID() string {
	if e.Metadata == nil {
		return ""
	}
	if id, ok := e.Metadata[MetaExecutionID].(string); ok {
		return id
	}
	return ""
}

type AuthMode string

const (
	AuthNone      AuthMode = "none"
	AuthBearer    AuthMode = "bearer"
	AuthBasic     AuthMode = "basic"
	AuthSignature AuthMode = "signature"
)

type FallbackAction string

const (
	FallbackIgnore FallbackAction = "ignore"
	FallbackLog    FallbackAction = "log"
	FallbackAlert  FallbackAction = "alert"
)

type WebhookEndpoint struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	URL             string            `json:"url"`
	Method          string            `json:"method"`
	Active          bool              `json:"active"`
	AuthMode        AuthMode          `json:"auth_mode"`
	AuthSecret      string            `json:"auth_secret,omitempty"` // bearer token, user:pass, or signing secret
	TriggerEvents   []string          `json:"trigger_events"` // JSON array in DB
	ResponseMapping map[string]string `json:"response_mapping,omitempty"`
	RetryAttempts   int               `json:"retry_attempts"`
	RetryDelaySec   int               `json:"retry_delay_sec"`
	Fallback        FallbackAction    `json:"fallback"`
	CreatedAt       int64             `json:"created_at"`
	UpdatedAt       int64             `json:"updated_at"`
}
