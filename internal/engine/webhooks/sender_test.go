package webhooks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pulseboard/internal/engine/workflows"
	"pulseboard/internal/platform/config"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

func newTestSender(t *testing.T, engineURL string) (*Sender, *repositories.EventRepository, *repositories.TriggerRepository) {
	t.Helper()
	db := setupTestDB(t)
	events := repositories.NewEventRepository(db)
	triggers := repositories.NewTriggerRepository(db)
	client := workflows.NewClient(config.EngineConfig{BaseURL: engineURL, Timeout: 2 * time.Second})
	return NewSender(client, events, triggers), events, triggers
}

func TestSender_SuccessRecordsProcessedEvent(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workflows/wf1/execute" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"executionId": "ex9", "status": "running"})
	}))
	defer engine.Close()

	sender, events, _ := newTestSender(t, engine.URL)

	ok, eventID := sender.Send("wf1", map[string]interface{}{"x": 1}, models.TriggerManual)
	if !ok {
		t.Fatal("expected send to succeed")
	}

	event, err := events.GetByID(eventID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if event.Status != models.EventProcessed {
		t.Errorf("expected processed, got %s", event.Status)
	}
	if event.Source != models.SourceDashboard {
		t.Errorf("expected dashboard source, got %s", event.Source)
	}
	if event.EventType != models.EventExecutionStarted {
		t.Errorf("expected execution_started, got %s", event.EventType)
	}
	if event.ExecutionID() != "ex9" {
		t.Errorf("expected engine execution id ex9, got %s", event.ExecutionID())
	}
}

func TestSender_EngineErrorRecordsFailedEvent(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer engine.Close()

	sender, events, _ := newTestSender(t, engine.URL)

	ok, eventID := sender.Send("wf1", nil, models.TriggerManual)
	if ok {
		t.Fatal("expected send to fail")
	}

	event, err := events.GetByID(eventID)
	if err != nil {
		t.Fatalf("event must be recorded even on engine failure: %v", err)
	}
	if event.Status != models.EventFailed {
		t.Errorf("expected failed, got %s", event.Status)
	}
}

func TestSender_SanitizesOutboundPayload(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	}))
	defer engine.Close()

	sender, events, _ := newTestSender(t, engine.URL)

	_, eventID := sender.Send("wf1", map[string]interface{}{"api_key": "k", "keep": "v"}, models.TriggerManual)

	event, err := events.GetByID(eventID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	data, _ := event.Payload["data"].(map[string]interface{})
	if _, present := data["api_key"]; present {
		t.Error("recorded payload should not contain api_key")
	}
	if data["keep"] != "v" {
		t.Errorf("non-secret payload field lost: %v", data)
	}
}

func TestSender_IncrementsTriggerFireCount(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	}))
	defer engine.Close()

	sender, _, triggers := newTestSender(t, engine.URL)

	trigger := &models.WorkflowTrigger{WorkflowID: "wf1", Type: models.TriggerManual, Enabled: true}
	if err := triggers.Create(trigger); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	sender.Send("wf1", nil, models.TriggerManual)
	sender.Send("wf1", nil, models.TriggerManual)

	got, err := triggers.GetByID(trigger.ID)
	if err != nil {
		t.Fatalf("get trigger: %v", err)
	}
	if got.FireCount != 2 {
		t.Errorf("expected fire count 2, got %d", got.FireCount)
	}
}
