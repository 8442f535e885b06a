package webhooks

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/pkg/metrics"
	"pulseboard/internal/platform/models"
	"pulseboard/internal/platform/repositories"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
)

// EventDispatcher routes one event to its handler. *Dispatcher is the real
// implementation.
type EventDispatcher interface {
	Dispatch(event *models.WebhookEvent) error
}

// Processor drains a FIFO queue of pending events with a single processing
// loop. Ingestion persists before it enqueues, so an accepted event is
// durable even if the process dies before the loop reaches it.
//
// An event that fails its handler keeps status pending, records a due time,
// and is re-enqueued at the tail when its timer fires; other events are not
// held up. After MaxAttempts failures the event is marked failed and never
// touched again.
type Processor struct {
	events     *repositories.EventRepository
	dispatcher EventDispatcher

	MaxAttempts int
	RetryDelay  time.Duration

	mu    sync.Mutex
	queue []*models.WebhookEvent
	busy  bool
}

func NewProcessor(events *repositories.EventRepository, dispatcher EventDispatcher) *Processor {
	return &Processor{
		events:      events,
		dispatcher:  dispatcher,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
	}
}

// Enqueue persists the event in pending status, appends it to the queue
// tail, and starts the drain loop if one is not already running. The caller
// only waits for the insert.
func (p *Processor) Enqueue(event *models.WebhookEvent) error {
	if err := p.events.Insert(event); err != nil {
		return errors.NewPersistence("insert event", err)
	}
	metrics.EventsReceived.WithLabelValues(string(event.Source)).Inc()
	p.push(event)
	return nil
}

// Recover re-enqueues pending events whose persisted retry time has passed.
// Called at startup and periodically by the recovery worker, it restores
// retries whose in-memory timers were lost to a crash.
func (p *Processor) Recover(now time.Time) (int, error) {
	due, err := p.events.DueRetries(now.Unix())
	if err != nil {
		return 0, errors.NewPersistence("scan due retries", err)
	}
	for _, event := range due {
		// Clear the due marker so a second scan cannot double-enqueue.
		if err := p.events.ScheduleRetry(event.ID, event.RetryCount, 0); err != nil {
			return 0, errors.NewPersistence("claim due retry", err)
		}
		p.push(event)
	}
	return len(due), nil
}

// Depth reports how many events are waiting in the queue.
func (p *Processor) Depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Processor) push(event *models.WebhookEvent) {
	p.mu.Lock()
	p.queue = append(p.queue, event)
	metrics.QueueDepth.Set(float64(len(p.queue)))
	start := !p.busy
	if start {
		p.busy = true
	}
	p.mu.Unlock()

	if start {
		go p.drain()
	}
}

// drain is the single consumer. The busy flag guarantees no two loops run
// against the same queue; the loop exits when the queue is empty and is
// restarted by the next push.
func (p *Processor) drain() {
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.busy = false
			p.mu.Unlock()
			return
		}
		event := p.queue[0]
		p.queue = p.queue[1:]
		metrics.QueueDepth.Set(float64(len(p.queue)))
		p.mu.Unlock()

		p.process(event)
	}
}

func (p *Processor) process(event *models.WebhookEvent) {
	// Sanitizing is idempotent; running it again here covers events that
	// were persisted before the deny-list grew.
	event.Payload = Sanitize(event.Payload)

	if err := p.dispatcher.Dispatch(event); err != nil {
		p.handleFailure(event, err)
		return
	}

	event.Status = models.EventProcessed
	if err := p.events.MarkProcessed(event.ID); err != nil {
		// The handler succeeded but the status write did not; the event stays
		// pending and will be re-run. Handlers are idempotent, so this is safe.
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to persist processed status")
		return
	}
	metrics.EventsProcessed.WithLabelValues(string(event.EventType)).Inc()
}

func (p *Processor) handleFailure(event *models.WebhookEvent, cause error) {
	event.RetryCount++

	if event.RetryCount >= p.MaxAttempts {
		event.Status = models.EventFailed
		if err := p.events.MarkFailed(event.ID, event.RetryCount); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("failed to persist failed status")
		}
		metrics.EventsFailed.Inc()
		log.Error().Err(cause).
			Str("event_id", event.ID).
			Int("attempts", event.RetryCount).
			Msg("event failed terminally")
		return
	}

	dueAt := time.Now().Add(p.RetryDelay)
	if err := p.events.ScheduleRetry(event.ID, event.RetryCount, dueAt.Unix()); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to persist retry schedule")
	}
	metrics.EventsRetried.Inc()
	log.Warn().Err(cause).
		Str("event_id", event.ID).
		Int("retry_count", event.RetryCount).
		Dur("delay", p.RetryDelay).
		Msg("event retry scheduled")

	// The timer is independent of the drain loop; other pending events are
	// processed while this one waits.
	time.AfterFunc(p.RetryDelay, func() {
		event.NextAttemptAt = 0
		p.push(event)
	})
}
