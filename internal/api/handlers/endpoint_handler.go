package handlers

import (
	"encoding/json"
	"net/http"

	"pulseboard/internal/engine/webhooks"
	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/platform/models"
)

type EndpointHandler struct {
	registry *webhooks.Registry
}

func NewEndpointHandler(registry *webhooks.Registry) *EndpointHandler {
	return &EndpointHandler{registry: registry}
}

func (h *EndpointHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string            `json:"name"`
		URL             string            `json:"url"`
		Method          string            `json:"method"`
		AuthMode        string            `json:"auth_mode"`
		AuthSecret      string            `json:"auth_secret"`
		TriggerEvents   []string          `json:"trigger_events"`
		ResponseMapping map[string]string `json:"response_mapping"`
		RetryAttempts   int               `json:"retry_attempts"`
		RetryDelaySec   int               `json:"retry_delay_sec"`
		Fallback        string            `json:"fallback"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name == "" || req.URL == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "name and url are required", nil)
		return
	}

	endpoint := &models.WebhookEndpoint{
		Name:            req.Name,
		URL:             req.URL,
		Method:          req.Method,
		Active:          true,
		AuthMode:        models.AuthMode(req.AuthMode),
		AuthSecret:      req.AuthSecret,
		TriggerEvents:   req.TriggerEvents,
		ResponseMapping: req.ResponseMapping,
		RetryAttempts:   req.RetryAttempts,
		RetryDelaySec:   req.RetryDelaySec,
		Fallback:        models.FallbackAction(req.Fallback),
	}

	id, err := h.registry.Register(endpoint)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to register endpoint", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (h *EndpointHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := paramValue(r, "endpoint_id")

	endpoint, err := h.registry.Get(id)
	if err != nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Endpoint not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(endpoint)
}
