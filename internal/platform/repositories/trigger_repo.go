package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"pulseboard/internal/platform/models"
)

type TriggerRepository struct {
	db *sql.DB
}

func NewTriggerRepository(db *sql.DB) *TriggerRepository {
	return &TriggerRepository{db: db}
}

func (r *TriggerRepository) Create(trigger *models.WorkflowTrigger) error {
	trigger.ID = "trg_" + uuid.New().String()
	trigger.CreatedAt = time.Now().Unix()
	trigger.UpdatedAt = trigger.CreatedAt

	conditionsJSON, err := json.Marshal(trigger.Conditions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workflow_triggers (id, workflow_id, type, conditions, enabled, fire_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`
	_, err = r.db.Exec(query, trigger.ID, trigger.WorkflowID, string(trigger.Type),
		string(conditionsJSON), trigger.Enabled, trigger.CreatedAt, trigger.UpdatedAt)
	return err
}

func (r *TriggerRepository) GetByID(id string) (*models.WorkflowTrigger, error) {
	query := `SELECT id, workflow_id, type, conditions, enabled, fire_count, created_at, updated_at FROM workflow_triggers WHERE id = ?`
	return scanTrigger(r.db.QueryRow(query, id))
}

// FindEnabled returns the enabled triggers bound to a workflow and type.
func (r *TriggerRepository) FindEnabled(workflowID string, triggerType models.TriggerType) ([]*models.WorkflowTrigger, error) {
	query := `SELECT id, workflow_id, type, conditions, enabled, fire_count, created_at, updated_at FROM workflow_triggers WHERE workflow_id = ? AND type = ? AND enabled = 1`
	rows, err := r.db.Query(query, workflowID, string(triggerType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var triggers []*models.WorkflowTrigger
	for rows.Next() {
		trigger, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, trigger)
	}
	return triggers, rows.Err()
}

func (r *TriggerRepository) IncrementFireCount(id string) error {
	_, err := r.db.Exec(`UPDATE workflow_triggers SET fire_count = fire_count + 1, updated_at = ? WHERE id = ?`,
		time.Now().Unix(), id)
	return err
}

func scanTrigger(row rowScanner) (*models.WorkflowTrigger, error) {
	var t models.WorkflowTrigger
	var triggerType string
	var conditionsStr sql.NullString

	err := row.Scan(&t.ID, &t.WorkflowID, &triggerType, &conditionsStr, &t.Enabled,
		&t.FireCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Type = models.TriggerType(triggerType)
	if conditionsStr.Valid && conditionsStr.String != "" {
		json.Unmarshal([]byte(conditionsStr.String), &t.Conditions)
	}

	return &t, nil
}
