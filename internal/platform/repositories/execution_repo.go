package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"pulseboard/internal/platform/models"
)

type ExecutionRepository struct {
	db *sql.DB
}

func NewExecutionRepository(db *sql.DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

// UpsertRunning records the start of an execution. The engine delivers
// at-least-once, so a duplicate start must not fail or duplicate the row.
func (r *ExecutionRepository) UpsertRunning(execution *models.WorkflowExecution) error {
	dataJSON, err := json.Marshal(execution.Data)
	if err != nil {
		return err
	}
	if execution.StartedAt == 0 {
		execution.StartedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO workflow_executions (id, workflow_id, status, started_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET workflow_id = excluded.workflow_id, data = excluded.data
	`
	_, err = r.db.Exec(query, execution.ID, execution.WorkflowID,
		string(models.ExecutionRunning), execution.StartedAt, string(dataJSON))
	return err
}

// Complete marks an execution finished. Returns the number of rows updated;
// zero means no execution with that id exists.
func (r *ExecutionRepository) Complete(id string, output map[string]interface{}) (int64, error) {
	outputJSON, err := json.Marshal(output)
	if err != nil {
		return 0, err
	}

	res, err := r.db.Exec(`UPDATE workflow_executions SET status = ?, completed_at = ?, output_data = ? WHERE id = ?`,
		string(models.ExecutionCompleted), time.Now().Unix(), string(outputJSON), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ExecutionRepository) Fail(id, message string, details map[string]interface{}) (int64, error) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return 0, err
	}

	res, err := r.db.Exec(`UPDATE workflow_executions SET status = ?, completed_at = ?, error_message = ?, error_details = ? WHERE id = ?`,
		string(models.ExecutionFailed), time.Now().Unix(), message, string(detailsJSON), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ExecutionRepository) GetByID(id string) (*models.WorkflowExecution, error) {
	query := `SELECT id, workflow_id, status, started_at, completed_at, data, output_data, error_message, error_details FROM workflow_executions WHERE id = ?`
	row := r.db.QueryRow(query, id)

	var e models.WorkflowExecution
	var status string
	var completedAt sql.NullInt64
	var dataStr, outputStr, errMsg, errDetails sql.NullString

	err := row.Scan(&e.ID, &e.WorkflowID, &status, &e.StartedAt, &completedAt,
		&dataStr, &outputStr, &errMsg, &errDetails)
	if err != nil {
		return nil, err
	}

	e.Status = models.ExecutionStatus(status)
	if completedAt.Valid {
		e.CompletedAt = completedAt.Int64
	}
	if dataStr.Valid && dataStr.String != "" {
		json.Unmarshal([]byte(dataStr.String), &e.Data)
	}
	if outputStr.Valid && outputStr.String != "" {
		json.Unmarshal([]byte(outputStr.String), &e.OutputData)
	}
	if errMsg.Valid {
		e.ErrorMessage = errMsg.String
	}
	if errDetails.Valid && errDetails.String != "" {
		json.Unmarshal([]byte(errDetails.String), &e.ErrorDetails)
	}

	return &e, nil
}
