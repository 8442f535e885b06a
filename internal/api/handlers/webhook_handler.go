package handlers

import (
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "pulseboard/internal/api/context"
	"pulseboard/internal/engine/webhooks"
	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/pkg/metrics"
	"pulseboard/internal/platform/models"
)

// maxInboundBody caps engine payloads at 1 MiB.
const maxInboundBody = 1 << 20

type WebhookHandler struct {
	orchestrator *webhooks.Orchestrator
}

func NewWebhookHandler(orchestrator *webhooks.Orchestrator) *WebhookHandler {
	return &WebhookHandler{orchestrator: orchestrator}
}

// Receive ingests an event from the external workflow engine. The caller
// gets an acknowledgment as soon as the event is durable; processing
// outcomes never propagate back here.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxInboundBody))
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Unreadable request body", nil)
		return
	}

	if endpointID := paramValue(r, "endpoint_id"); endpointID != "" {
		endpoint, err := h.orchestrator.Registry.Get(endpointID)
		if err != nil {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Unknown endpoint", nil)
			return
		}
		if !webhooks.VerifyInbound(endpoint, r.Header, body) {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Webhook verification failed", nil)
			return
		}
	}

	event, err := h.orchestrator.Validator.Validate(r.Header.Get("Content-Type"), body)
	if err != nil {
		metrics.EventsRejected.Inc()
		message := "Invalid payload"
		if ve, ok := err.(*errors.ValidationError); ok {
			message = ve.Reason
		}
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, message, nil)
		return
	}

	if event.Metadata == nil {
		event.Metadata = map[string]interface{}{}
	}
	event.Metadata[models.MetaUserAgent] = r.UserAgent()
	if ip, _, splitErr := net.SplitHostPort(r.RemoteAddr); splitErr == nil {
		event.Metadata[models.MetaRemoteAddr] = ip
	} else {
		event.Metadata[models.MetaRemoteAddr] = r.RemoteAddr
	}

	if err := h.orchestrator.Processor.Enqueue(event); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to queue event", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"eventId": event.ID,
		"message": "Event queued for processing",
	})
}

// Status reports queue and endpoint counters over the trailing 24 hours.
func (h *WebhookHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.orchestrator.Status()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to compute status", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func paramValue(r *http.Request, name string) string {
	params, ok := r.Context().Value(apiContext.Params).(httprouter.Params)
	if !ok {
		return ""
	}
	return params.ByName(name)
}
