package workers

import (
	"time"

	"github.com/rs/zerolog/log"

	"pulseboard/internal/engine/webhooks"
)

// RecoverRetries re-enqueues pending events whose persisted retry time has
// passed. In-memory retry timers die with the process; this scan is what
// keeps a scheduled retry from being silently abandoned after a crash.
func RecoverRetries(processor *webhooks.Processor) {
	recovered, err := processor.Recover(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("retry recovery scan failed")
		return
	}
	if recovered > 0 {
		log.Info().Int("events", recovered).Msg("re-enqueued overdue retries")
	}
}
