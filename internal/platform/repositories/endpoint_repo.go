package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"pulseboard/internal/platform/models"
)

type EndpointRepository struct {
	db *sql.DB
}

func NewEndpointRepository(db *sql.DB) *EndpointRepository {
	return &EndpointRepository{db: db}
}

func (r *EndpointRepository) Create(endpoint *models.WebhookEndpoint) error {
	endpoint.ID = "ep_" + uuid.New().String()
	endpoint.CreatedAt = time.Now().Unix()
	endpoint.UpdatedAt = endpoint.CreatedAt

	eventsJSON, err := json.Marshal(endpoint.TriggerEvents)
	if err != nil {
		return err
	}
	mappingJSON, err := json.Marshal(endpoint.ResponseMapping)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO webhook_endpoints (id, name, url, method, active, auth_mode, auth_secret, trigger_events, response_mapping, retry_attempts, retry_delay_sec, fallback, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		endpoint.ID, endpoint.Name, endpoint.URL, endpoint.Method, endpoint.Active,
		string(endpoint.AuthMode), endpoint.AuthSecret, string(eventsJSON), string(mappingJSON),
		endpoint.RetryAttempts, endpoint.RetryDelaySec, string(endpoint.Fallback),
		endpoint.CreatedAt, endpoint.UpdatedAt)
	return err
}

func (r *EndpointRepository) GetByID(id string) (*models.WebhookEndpoint, error) {
	query := `SELECT id, name, url, method, active, auth_mode, auth_secret, trigger_events, response_mapping, retry_attempts, retry_delay_sec, fallback, created_at, updated_at FROM webhook_endpoints WHERE id = ?`
	return scanEndpoint(r.db.QueryRow(query, id))
}

func (r *EndpointRepository) ListActive() ([]*models.WebhookEndpoint, error) {
	query := `SELECT id, name, url, method, active, auth_mode, auth_secret, trigger_events, response_mapping, retry_attempts, retry_delay_sec, fallback, created_at, updated_at FROM webhook_endpoints WHERE active = 1 ORDER BY created_at ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var endpoints []*models.WebhookEndpoint
	for rows.Next() {
		endpoint, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, endpoint)
	}
	return endpoints, rows.Err()
}

func scanEndpoint(row rowScanner) (*models.WebhookEndpoint, error) {
	var e models.WebhookEndpoint
	var authMode, fallback, eventsStr string
	var secret, mappingStr sql.NullString

	err := row.Scan(&e.ID, &e.Name, &e.URL, &e.Method, &e.Active, &authMode, &secret,
		&eventsStr, &mappingStr, &e.RetryAttempts, &e.RetryDelaySec, &fallback,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.AuthMode = models.AuthMode(authMode)
	e.Fallback = models.FallbackAction(fallback)
	if secret.Valid {
		e.AuthSecret = secret.String
	}
	json.Unmarshal([]byte(eventsStr), &e.TriggerEvents)
	if mappingStr.Valid && mappingStr.String != "" {
		json.Unmarshal([]byte(mappingStr.String), &e.ResponseMapping)
	}

	return &e, nil
}
