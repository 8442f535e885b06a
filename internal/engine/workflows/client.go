package workflows

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pulseboard/internal/pkg/errors"
	"pulseboard/internal/platform/config"
)

// Client talks to the external workflow engine. The engine owns execution
// semantics; this client only starts runs and reports the outcome.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.EngineConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type ExecuteResult struct {
	ExecutionID string `json:"executionId"`
	Status      string `json:"status"`
}

// Execute asks the engine to run a workflow. Transport failures and non-2xx
// responses come back as EngineCallError; the caller decides about retries.
func (c *Client) Execute(workflowID string, data map[string]interface{}) (*ExecuteResult, error) {
	body, err := json.Marshal(map[string]interface{}{"data": data})
	if err != nil {
		return nil, &errors.EngineCallError{WorkflowID: workflowID, Err: err}
	}

	url := fmt.Sprintf("%s/workflows/%s/execute", c.baseURL, workflowID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &errors.EngineCallError{WorkflowID: workflowID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.EngineCallError{WorkflowID: workflowID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &errors.EngineCallError{WorkflowID: workflowID, StatusCode: resp.StatusCode}
	}

	var result ExecuteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &errors.EngineCallError{WorkflowID: workflowID, Err: err}
	}
	if result.Status == "error" {
		return &result, &errors.EngineCallError{WorkflowID: workflowID, StatusCode: resp.StatusCode}
	}

	return &result, nil
}
