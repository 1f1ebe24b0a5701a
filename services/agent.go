package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AgentTask is one unit of work for the hosted screen-automation agent:
// a short task name, a natural-language instruction, and ordered step
// descriptions. The agent perceives the screen and issues input events;
// this process only ever sees success or failure.
type AgentTask struct {
	Model       string   `json:"model"`
	Task        string   `json:"task"`
	Instruction string   `json:"instruction"`
	Todos       []string `json:"todos"`
}

// TaskStatus is the remote task lifecycle as reported by the API.
type TaskStatus struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"` // pending | running | completed | failed
	Error  string `json:"error,omitempty"`
}

// AgentAPI is the surface the runner needs from the automation service.
type AgentAPI interface {
	CreateTask(ctx context.Context, task AgentTask) (string, error)
	GetTask(ctx context.Context, taskID string) (*TaskStatus, error)
	CancelTask(ctx context.Context, taskID string) error
}

// AgentClient talks to the hosted automation agent's task API.
type AgentClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewAgentClient(baseURL, apiKey string) *AgentClient {
	return &AgentClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ AgentAPI = (*AgentClient)(nil)

func (c *AgentClient) CreateTask(ctx context.Context, task AgentTask) (string, error) {
	body, _ := json.Marshal(task)
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/lux/tasks", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errRes struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errRes)
		return "", fmt.Errorf("create task failed (%d): %s", resp.StatusCode, errRes.Message)
	}

	var res TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	if res.TaskID == "" {
		return "", fmt.Errorf("create task: empty task id")
	}
	return res.TaskID, nil
}

func (c *AgentClient) GetTask(ctx context.Context, taskID string) (*TaskStatus, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/v1/lux/tasks/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get task failed with status %d", resp.StatusCode)
	}

	var res TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CancelTask is best-effort: the agent releases control of the screen as
// soon as it notices.
func (c *AgentClient) CancelTask(ctx context.Context, taskID string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/lux/tasks/"+taskID+"/cancel", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("cancel task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("cancel task failed with status %d", resp.StatusCode)
	}
	return nil
}
