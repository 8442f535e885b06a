package webhooks

import (
	"testing"

	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/platform/models"
)

func TestValidate_TransportContract(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name        string
		contentType string
		body        string
		wantReason  string
	}{
		{"missing content type", "text/plain", `{"workflowId":"wf1"}`, "missing content type"},
		{"empty body", "application/json", "", "empty body"},
		{"malformed json", "application/json", "{not json", "malformed json"},
		{"missing workflowId", "application/json", `{"data":{"x":1}}`, "missing workflowId"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate(tc.contentType, []byte(tc.body))
			ve, ok := err.(*errors.ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Reason != tc.wantReason {
				t.Errorf("expected reason %q, got %q", tc.wantReason, ve.Reason)
			}
		})
	}
}

func TestValidate_NestedWorkflowID(t *testing.T) {
	v := NewValidator()

	event, err := v.Validate("application/json", []byte(`{"workflow":{"id":"wf9"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.WorkflowID != "wf9" {
		t.Errorf("expected workflow id wf9, got %s", event.WorkflowID)
	}
	if event.EventType != models.EventWorkflowUpdated {
		t.Errorf("expected workflow_updated, got %s", event.EventType)
	}
}

func TestValidate_NewEventDefaults(t *testing.T) {
	v := NewValidator()

	event, err := v.Validate("application/json; charset=utf-8", []byte(`{"workflowId":"wf1","execution":{"status":"running","id":"ex1"},"password":"abc"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Status != models.EventPending {
		t.Errorf("expected pending status, got %s", event.Status)
	}
	if event.RetryCount != 0 {
		t.Errorf("expected retry count 0, got %d", event.RetryCount)
	}
	if event.Source != models.SourceExternalEngine {
		t.Errorf("expected external_engine source, got %s", event.Source)
	}
	if event.ExecutionID() != "ex1" {
		t.Errorf("expected execution id ex1, got %s", event.ExecutionID())
	}
	if _, present := event.Payload["password"]; present {
		t.Error("payload should be sanitized before storage")
	}
}

func TestClassifyEventType(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    models.EventType
	}{
		{"running", map[string]interface{}{"execution": map[string]interface{}{"status": "running"}}, models.EventExecutionStarted},
		{"success", map[string]interface{}{"execution": map[string]interface{}{"status": "success"}}, models.EventExecutionCompleted},
		{"error", map[string]interface{}{"execution": map[string]interface{}{"status": "error"}}, models.EventExecutionFailed},
		{"workflow only", map[string]interface{}{"workflow": map[string]interface{}{"id": "wf1"}}, models.EventWorkflowUpdated},
		{"no recognizable shape", map[string]interface{}{"workflowId": "wf1"}, models.EventUnknown},
		{"execution with odd status", map[string]interface{}{"execution": map[string]interface{}{"status": "paused"}}, models.EventUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyEventType(tc.payload); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestEventIDs_Unique(t *testing.T) {
	v := NewValidator()
	body := []byte(`{"workflowId":"wf1","execution":{"status":"running"}}`)

	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		event, err := v.Validate("application/json", body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[event.ID]; dup {
			t.Fatalf("duplicate event id %s", event.ID)
		}
		seen[event.ID] = struct{}{}
	}
}
