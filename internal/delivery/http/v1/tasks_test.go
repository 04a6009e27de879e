package v1

import (
	"fmt"
	"net/http"
	"testing"
)

func taskPath(id int64) string {
	return fmt.Sprintf("/api/tasks/%d", id)
}

func TestHandleCreateTask(t *testing.T) {
	s := newTestServer(t, false)
	ada := s.registerUser(t, "ada", "")
	bob := s.registerUser(t, "bob", "")

	resp := s.do(t, http.MethodPost, "/api/tasks", ada.token, map[string]any{
		"body":   "write the report",
		"userId": bob.id,
	})
	if resp.code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body = %v)", resp.code, resp.body)
	}
	if resp.body["message"] != "Task created successfully" {
		t.Fatalf("message = %v", resp.body["message"])
	}

	task := resp.body["task"].(map[string]any)
	if got := int64(task["userId"].(float64)); got != ada.id {
		t.Fatalf("userId = %d, want the caller %d", got, ada.id)
	}
	if task["username"] != "ada" || task["firstName"] != "First ada" || task["lastName"] != "Last ada" {
		t.Fatalf("owner fields = %v", task)
	}
	if task["body"] != "write the report" {
		t.Fatalf("body = %v", task["body"])
	}
}

func TestHandleCreateTask_BodyRequired(t *testing.T) {
	s := newTestServer(t, false)
	ada := s.registerUser(t, "ada", "")

	for _, body := range []any{nil, map[string]any{}, map[string]any{"body": " \t\n"}} {
		expectError(t, s.do(t, http.MethodPost, "/api/tasks", ada.token, body),
			http.StatusBadRequest, "Task body is required")
	}
	if len(s.db.tasks) != 0 {
		t.Fatalf("rejected requests created %d tasks", len(s.db.tasks))
	}
}

func TestHandleGetTasks(t *testing.T) {
	s := newTestServer(t, false)
	admin := s.registerUser(t, "root", "admin")
	ada := s.registerUser(t, "ada", "")
	bob := s.registerUser(t, "bob", "")
	s.createTask(t, ada, "ada 1")
	s.createTask(t, ada, "ada 2")
	s.createTask(t, bob, "bob 1")

	resp := s.do(t, http.MethodGet, "/api/tasks", ada.token, nil)
	if resp.code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.code)
	}
	tasks := resp.body["tasks"].([]any)
	if len(tasks) != 2 || resp.body["count"] != float64(2) {
		t.Fatalf("basic user sees %d tasks (count %v), want 2", len(tasks), resp.body["count"])
	}
	for _, item := range tasks {
		if got := int64(item.(map[string]any)["userId"].(float64)); got != ada.id {
			t.Fatalf("basic user sees task of user %d", got)
		}
	}
	if first := tasks[0].(map[string]any)["body"]; first != "ada 2" {
		t.Fatalf("tasks must be newest first, got %v first", first)
	}

	resp = s.do(t, http.MethodGet, "/api/tasks", admin.token, nil)
	if resp.body["count"] != float64(3) {
		t.Fatalf("admin count = %v, want 3", resp.body["count"])
	}
}

func TestHandleGetTasks_Empty(t *testing.T) {
	s := newTestServer(t, false)
	ada := s.registerUser(t, "ada", "")

	resp := s.do(t, http.MethodGet, "/api/tasks", ada.token, nil)
	tasks, ok := resp.body["tasks"].([]any)
	if !ok || len(tasks) != 0 || resp.body["count"] != float64(0) {
		t.Fatalf("empty list body = %v", resp.body)
	}
}

func TestHandleGetTask(t *testing.T) {
	s := newTestServer(t, false)
	admin := s.registerUser(t, "root", "admin")
	ada := s.registerUser(t, "ada", "")
	bob := s.registerUser(t, "bob", "")
	taskID := s.createTask(t, ada, "ada 1")

	resp := s.do(t, http.MethodGet, taskPath(taskID), ada.token, nil)
	if resp.code != http.StatusOK {
		t.Fatalf("owner: status = %d, want 200", resp.code)
	}

	expectError(t, s.do(t, http.MethodGet, taskPath(taskID), bob.token, nil),
		http.StatusForbidden, "Access denied")

	resp = s.do(t, http.MethodGet, taskPath(taskID), admin.token, nil)
	if resp.code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", resp.code)
	}

	expectError(t, s.do(t, http.MethodGet, taskPath(999), ada.token, nil),
		http.StatusNotFound, "Task not found")
	expectError(t, s.do(t, http.MethodGet, "/api/tasks/-1", ada.token, nil),
		http.StatusNotFound, "Task not found")
}

func TestHandleUpdateTask(t *testing.T) {
	s := newTestServer(t, false)
	admin := s.registerUser(t, "root", "admin")
	ada := s.registerUser(t, "ada", "")
	bob := s.registerUser(t, "bob", "")
	taskID := s.createTask(t, ada, "draft")

	resp := s.do(t, http.MethodPut, taskPath(taskID), ada.token, map[string]any{"body": "final"})
	if resp.code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body = %v)", resp.code, resp.body)
	}
	if resp.body["message"] != "Task updated successfully" {
		t.Fatalf("message = %v", resp.body["message"])
	}
	if got := resp.body["task"].(map[string]any)["body"]; got != "final" {
		t.Fatalf("body = %v, want final", got)
	}

	expectError(t, s.do(t, http.MethodPut, taskPath(taskID), bob.token, map[string]any{"body": "hijack"}),
		http.StatusForbidden, "Access denied")
	if s.db.tasks[taskID].Body != "final" {
		t.Fatalf("forbidden update changed the task")
	}

	expectError(t, s.do(t, http.MethodPut, taskPath(taskID), ada.token, map[string]any{"body": "  "}),
		http.StatusBadRequest, "Task body is required")
	expectError(t, s.do(t, http.MethodPut, taskPath(999), ada.token, map[string]any{"body": "x"}),
		http.StatusNotFound, "Task not found")

	resp = s.do(t, http.MethodPut, taskPath(taskID), admin.token, map[string]any{"body": "reviewed"})
	if resp.code != http.StatusOK {
		t.Fatalf("admin update: status = %d, want 200", resp.code)
	}
	if got := int64(resp.body["task"].(map[string]any)["userId"].(float64)); got != ada.id {
		t.Fatalf("admin update changed the owner to %d", got)
	}
}

func TestHandleDeleteTask(t *testing.T) {
	s := newTestServer(t, false)
	admin := s.registerUser(t, "root", "admin")
	ada := s.registerUser(t, "ada", "")
	bob := s.registerUser(t, "bob", "")
	first := s.createTask(t, ada, "first")
	second := s.createTask(t, ada, "second")

	expectError(t, s.do(t, http.MethodDelete, taskPath(first), bob.token, nil),
		http.StatusForbidden, "Access denied")

	resp := s.do(t, http.MethodDelete, taskPath(first), ada.token, nil)
	if resp.code != http.StatusOK || resp.body["message"] != "Task deleted successfully" {
		t.Fatalf("owner delete: status = %d, body = %v", resp.code, resp.body)
	}
	expectError(t, s.do(t, http.MethodDelete, taskPath(first), ada.token, nil),
		http.StatusNotFound, "Task not found")

	resp = s.do(t, http.MethodDelete, taskPath(second), admin.token, nil)
	if resp.code != http.StatusOK {
		t.Fatalf("admin delete: status = %d, want 200", resp.code)
	}
	if len(s.db.tasks) != 0 {
		t.Fatalf("tasks left: %d", len(s.db.tasks))
	}
}
