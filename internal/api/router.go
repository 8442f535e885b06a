package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apiContext "pulseboard/internal/api/context"
	"pulseboard/internal/api/handlers"
	"pulseboard/internal/api/middleware"
)

type Dependencies struct {
	WebhookHandler  *handlers.WebhookHandler
	EndpointHandler *handlers.EndpointHandler
	TriggerHandler  *handlers.TriggerHandler
	HealthHandler   *handlers.HealthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimiter     *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	authMid := deps.AuthMiddleware
	ingestLimit := deps.RateLimiter.Limit("ingest")
	writeLimit := deps.RateLimiter.Limit("api_write")

	// Inbound path from the external workflow engine. Acknowledged as soon
	// as the event is durable; no auth beyond the endpoint's own mode.
	router.POST("/api/v1/webhooks/engine",
		chain(deps.WebhookHandler.Receive, ingestLimit))
	router.POST("/api/v1/webhooks/engine/:endpoint_id",
		chain(deps.WebhookHandler.Receive, ingestLimit))

	router.GET("/api/v1/webhooks/status", wrap(deps.WebhookHandler.Status))

	// Management surface for dashboard services.
	router.POST("/api/v1/webhooks/endpoints",
		chain(deps.EndpointHandler.Register, authMid.Handle, writeLimit))
	router.GET("/api/v1/webhooks/endpoints/:endpoint_id",
		chain(deps.EndpointHandler.Get, authMid.Handle))
	router.POST("/api/v1/triggers",
		chain(deps.TriggerHandler.Create, authMid.Handle, writeLimit))
	router.POST("/api/v1/workflows/:workflow_id/trigger",
		chain(deps.TriggerHandler.Fire, authMid.Handle, writeLimit))

	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
