package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTaskServer(t *testing.T) (*httptest.Server, *AgentClient) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/lux/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "bad key"})
			return
		}
		var task AgentTask
		if err := json.NewDecoder(r.Body).Decode(&task); err != nil || task.Instruction == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(TaskStatus{TaskID: "task-42", Status: "pending"})
	})
	mux.HandleFunc("/v1/lux/tasks/task-42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TaskStatus{TaskID: "task-42", Status: "completed"})
	})
	mux.HandleFunc("/v1/lux/tasks/task-42/cancel", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, NewAgentClient(server.URL, "test-key")
}

func TestAgentClientCreateGetCancel(t *testing.T) {
	_, client := newTaskServer(t)
	ctx := context.Background()

	taskID, err := client.CreateTask(ctx, AgentTask{
		Model:       "lux-actor-1",
		Task:        "test",
		Instruction: "do the thing",
		Todos:       []string{"step one"},
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if taskID != "task-42" {
		t.Errorf("task id = %q", taskID)
	}

	status, err := client.GetTask(ctx, taskID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if status.Status != "completed" {
		t.Errorf("status = %q", status.Status)
	}

	if err := client.CancelTask(ctx, taskID); err != nil {
		t.Errorf("CancelTask: %v", err)
	}
}

func TestAgentClientBadKey(t *testing.T) {
	server, _ := newTaskServer(t)
	client := NewAgentClient(server.URL, "wrong-key")

	_, err := client.CreateTask(context.Background(), AgentTask{Instruction: "x"})
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected auth failure with message, got %v", err)
	}
}

func TestAgentClientEmptyTaskID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/lux/tasks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TaskStatus{})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewAgentClient(server.URL, "k")
	if _, err := client.CreateTask(context.Background(), AgentTask{Instruction: "x"}); err == nil {
		t.Fatal("expected error for empty task id")
	}
}
