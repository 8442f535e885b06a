package webhooks

import (
	"testing"
	"time"

	"pulseboard/internal/engine/workflows"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

func TestDispatcher_ExecutionStarted(t *testing.T) {
	db := setupTestDB(t)
	executions := repositories.NewExecutionRepository(db)
	d := NewDispatcher(executions, nil)

	event := testEvent("evtS")
	event.Metadata = map[string]interface{}{models.MetaExecutionID: "ex1"}

	if err := d.Dispatch(event); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	execution, err := executions.GetByID("ex1")
	if err != nil {
		t.Fatalf("get execution: %v", err)
	}
	if execution.Status != models.ExecutionRunning {
		t.Errorf("expected running, got %s", execution.Status)
	}
	if execution.WorkflowID != "wf1" {
		t.Errorf("expected workflow wf1, got %s", execution.WorkflowID)
	}
}

func TestDispatcher_DuplicateStartIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	executions := repositories.NewExecutionRepository(db)
	d := NewDispatcher(executions, nil)

	event := testEvent("evtS")
	event.Metadata = map[string]interface{}{models.MetaExecutionID: "ex1"}

	if err := d.Dispatch(event); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if err := d.Dispatch(event); err != nil {
		t.Fatalf("redelivered dispatch should not fail: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM workflow_executions WHERE id = 'ex1'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 execution row, got %d", count)
	}
}

func TestDispatcher_CompletedUpdatesExecution(t *testing.T) {
	db := setupTestDB(t)
	executions := repositories.NewExecutionRepository(db)
	d := NewDispatcher(executions, nil)

	started := testEvent("evtS")
	started.Metadata = map[string]interface{}{models.MetaExecutionID: "ex1"}
	if err := d.Dispatch(started); err != nil {
		t.Fatalf("dispatch start: %v", err)
	}

	completed := testEvent("evtC")
	completed.EventType = models.EventExecutionCompleted
	completed.Metadata = map[string]interface{}{models.MetaExecutionID: "ex1"}
	completed.Payload = map[string]interface{}{"data": map[string]interface{}{"rows": 42.0}}
	if err := d.Dispatch(completed); err != nil {
		t.Fatalf("dispatch completion: %v", err)
	}

	execution, err := executions.GetByID("ex1")
	if err != nil {
		t.Fatalf("get execution: %v", err)
	}
	if execution.Status != models.ExecutionCompleted {
		t.Errorf("expected completed, got %s", execution.Status)
	}
	if execution.CompletedAt == 0 {
		t.Error("expected completed_at to be set")
	}
	if execution.OutputData["rows"] != 42.0 {
		t.Errorf("expected output rows 42, got %v", execution.OutputData["rows"])
	}
}

func TestDispatcher_CompletedForUnknownExecutionIsNoop(t *testing.T) {
	db := setupTestDB(t)
	executions := repositories.NewExecutionRepository(db)
	d := NewDispatcher(executions, nil)

	event := testEvent("evtC")
	event.EventType = models.EventExecutionCompleted
	event.Metadata = map[string]interface{}{models.MetaExecutionID: "ghost"}

	if err := d.Dispatch(event); err != nil {
		t.Errorf("completion for unknown execution must not error: %v", err)
	}
}

func TestDispatcher_FailedRecordsError(t *testing.T) {
	db := setupTestDB(t)
	executions := repositories.NewExecutionRepository(db)
	d := NewDispatcher(executions, nil)

	started := testEvent("evtS")
	started.Metadata = map[string]interface{}{models.MetaExecutionID: "ex1"}
	if err := d.Dispatch(started); err != nil {
		t.Fatalf("dispatch start: %v", err)
	}

	failed := testEvent("evtF")
	failed.EventType = models.EventExecutionFailed
	failed.Metadata = map[string]interface{}{models.MetaExecutionID: "ex1"}
	failed.Payload = map[string]interface{}{"error": map[string]interface{}{"message": "node crashed"}}
	if err := d.Dispatch(failed); err != nil {
		t.Fatalf("dispatch failure: %v", err)
	}

	execution, err := executions.GetByID("ex1")
	if err != nil {
		t.Fatalf("get execution: %v", err)
	}
	if execution.Status != models.ExecutionFailed {
		t.Errorf("expected failed, got %s", execution.Status)
	}
	if execution.ErrorMessage != "node crashed" {
		t.Errorf("expected error message from payload, got %q", execution.ErrorMessage)
	}
}

func TestDispatcher_WorkflowUpdatedInvalidatesCache(t *testing.T) {
	db := setupTestDB(t)
	cache := workflows.NewCache(time.Minute)
	cache.Set(&workflows.CachedWorkflow{ID: "wf1", Name: "Revenue sync"})
	d := NewDispatcher(repositories.NewExecutionRepository(db), cache)

	event := testEvent("evtU")
	event.EventType = models.EventWorkflowUpdated

	if err := d.Dispatch(event); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if _, ok := cache.Get("wf1"); ok {
		t.Error("expected cache entry to be invalidated")
	}
}

func TestDispatcher_UnknownEventIsNoop(t *testing.T) {
	db := setupTestDB(t)
	d := NewDispatcher(repositories.NewExecutionRepository(db), nil)

	event := testEvent("evtX")
	event.EventType = models.EventUnknown

	if err := d.Dispatch(event); err != nil {
		t.Errorf("unknown event must not error: %v", err)
	}
}
