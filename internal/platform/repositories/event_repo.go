package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"pulseboard/internal/platform/models"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert appends a new event. Events are never deleted; status updates go
// through the processor-facing methods below.
func (r *EventRepository) Insert(event *models.WebhookEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO webhook_events (id, workflow_id, event_type, payload, timestamp, source, status, retry_count, metadata, next_attempt_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		event.ID, event.WorkflowID, string(event.EventType), string(payloadJSON),
		event.Timestamp.UTC().Format(time.RFC3339Nano), string(event.Source),
		string(event.Status), event.RetryCount, string(metadataJSON), event.NextAttemptAt)
	return err
}

func (r *EventRepository) GetByID(id string) (*models.WebhookEvent, error) {
	query := `SELECT id, workflow_id, event_type, payload, timestamp, source, status, retry_count, metadata, next_attempt_at FROM webhook_events WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

func (r *EventRepository) MarkProcessed(id string) error {
	_, err := r.db.Exec(`UPDATE webhook_events SET status = ?, next_attempt_at = 0 WHERE id = ?`,
		string(models.EventProcessed), id)
	return err
}

func (r *EventRepository) MarkFailed(id string, retryCount int) error {
	_, err := r.db.Exec(`UPDATE webhook_events SET status = ?, retry_count = ?, next_attempt_at = 0 WHERE id = ?`,
		string(models.EventFailed), retryCount, id)
	return err
}

// ScheduleRetry records the attempt count and the persisted due time so a
// retry survives a process restart.
func (r *EventRepository) ScheduleRetry(id string, retryCount int, nextAttemptAt int64) error {
	_, err := r.db.Exec(`UPDATE webhook_events SET retry_count = ?, next_attempt_at = ? WHERE id = ?`,
		retryCount, nextAttemptAt, id)
	return err
}

// DueRetries returns pending events whose persisted retry time has passed.
func (r *EventRepository) DueRetries(now int64) ([]*models.WebhookEvent, error) {
	query := `
		SELECT id, workflow_id, event_type, payload, timestamp, source, status, retry_count, metadata, next_attempt_at
		FROM webhook_events
		WHERE status = ? AND retry_count > 0 AND next_attempt_at > 0 AND next_attempt_at <= ?
		ORDER BY next_attempt_at ASC
	`
	rows, err := r.db.Query(query, string(models.EventPending), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.WebhookEvent
	for rows.Next() {
		event, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// StatusCounts reports how many events reached each status since the cutoff.
func (r *EventRepository) StatusCounts(since time.Time) (map[models.EventStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM webhook_events WHERE timestamp >= ? GROUP BY status`
	rows, err := r.db.Query(query, since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.EventStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.EventStatus(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *EventRepository) scanOne(row *sql.Row) (*models.WebhookEvent, error) {
	return r.scanRow(row)
}

func (r *EventRepository) scanRow(row rowScanner) (*models.WebhookEvent, error) {
	var e models.WebhookEvent
	var eventType, source, status, payloadStr, timestampStr string
	var metadataStr sql.NullString

	err := row.Scan(&e.ID, &e.WorkflowID, &eventType, &payloadStr, &timestampStr,
		&source, &status, &e.RetryCount, &metadataStr, &e.NextAttemptAt)
	if err != nil {
		return nil, err
	}

	e.EventType = models.EventType(eventType)
	e.Source = models.EventSource(source)
	e.Status = models.EventStatus(status)
	if e.Timestamp, err = time.Parse(time.RFC3339Nano, timestampStr); err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(payloadStr), &e.Payload)
	if metadataStr.Valid && metadataStr.String != "" {
		json.Unmarshal([]byte(metadataStr.String), &e.Metadata)
	}

	return &e, nil
}
