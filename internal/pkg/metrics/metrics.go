package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_webhook_events_received_total",
		Help: "Total number of webhook events accepted into the queue, labelled by source.",
	}, []string{"source"})

	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_webhook_events_processed_total",
		Help: "Total number of webhook events that reached a terminal processed status, labelled by event type.",
	}, []string{"event_type"})

	EventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulseboard_webhook_events_failed_total",
		Help: "Total number of webhook events that exhausted their retry budget.",
	})

	EventsRetried = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulseboard_webhook_events_retried_total",
		Help: "Total number of retry attempts scheduled by the processor.",
	})

	EventsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulseboard_webhook_events_rejected_total",
		Help: "Total number of inbound payloads rejected by validation.",
	})

	UnknownEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulseboard_webhook_events_unknown_total",
		Help: "Total number of events whose payload shape matched no known event type.",
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pulseboard_webhook_queue_depth",
		Help: "Current number of events waiting in the processing queue.",
	})

	EngineCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulseboard_engine_calls_total",
		Help: "Total number of outbound calls to the workflow engine, labelled by status.",
	}, []string{"status"})
)
