package handlers

import (
	"encoding/json"
	"net/http"

	"pulseboard/internal/engine/webhooks"
	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

type TriggerHandler struct {
	triggers *repositories.TriggerRepository
	sender   *webhooks.Sender
}

func NewTriggerHandler(triggers *repositories.TriggerRepository, sender *webhooks.Sender) *TriggerHandler {
	return &TriggerHandler{triggers: triggers, sender: sender}
}

func (h *TriggerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkflowID string                 `json:"workflow_id"`
		Type       string                 `json:"type"`
		Conditions map[string]interface{} `json:"conditions"`
		Enabled    *bool                  `json:"enabled"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.WorkflowID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "workflow_id is required", nil)
		return
	}
	switch models.TriggerType(req.Type) {
	case models.TriggerWebhook, models.TriggerSchedule, models.TriggerManual, models.TriggerEvent:
	default:
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid trigger type", nil)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	trigger := &models.WorkflowTrigger{
		WorkflowID: req.WorkflowID,
		Type:       models.TriggerType(req.Type),
		Conditions: req.Conditions,
		Enabled:    enabled,
	}

	if err := h.triggers.Create(trigger); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create trigger", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": trigger.ID})
}

// Fire runs a workflow through the outbound sender. The boolean result maps
// to 200/502; the recorded event id comes back either way.
func (h *TriggerHandler) Fire(w http.ResponseWriter, r *http.Request) {
	workflowID := paramValue(r, "workflow_id")

	var req struct {
		Data        map[string]interface{} `json:"data"`
		TriggerType string                 `json:"trigger_type"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	triggerType := models.TriggerType(req.TriggerType)
	if triggerType == "" {
		triggerType = models.TriggerManual
	}

	ok, eventID := h.sender.Send(workflowID, req.Data, triggerType)

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusBadGateway)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": ok,
		"eventId": eventID,
	})
}
