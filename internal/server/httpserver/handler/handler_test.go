// Package handler provides HTTP request handlers for TaskHub.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arvel/taskhub-go/internal/core/domain"
	"github.com/arvel/taskhub-go/internal/core/service"
	"github.com/arvel/taskhub-go/internal/storage/memory"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	handler  *Handler
	store    *memory.Store
	accounts *service.AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	accounts := service.NewAccountService(store)
	tokens, err := service.NewTokenService(service.TokenServiceConfig{
		SigningKey: []byte(testSigningKey),
	})
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	tasks := service.NewTaskService(store)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		handler:  New(accounts, tokens, tasks, nil, logger),
		store:    store,
		accounts: accounts,
	}
}

// registerUser creates an account directly through the service.
func (e *testEnv) registerUser(t *testing.T, username, password string) *domain.User {
	t.Helper()

	user, err := e.accounts.Register(context.Background(), &service.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return user
}

// doAs performs a request with the identity already resolved, the way the
// auth middleware would hand it to the handler.
func (e *testEnv) doAs(t *testing.T, user *domain.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if user != nil {
		req = req.WithContext(WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func TestHandleRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAs(t, nil, "POST", "/auth/register", RegisterRequest{
		Username: "alice",
		Password: "s3cret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp MessageResponse
	decodeBody(t, rec, &resp)
	if resp.Msg != "User created successfully" {
		t.Errorf("msg = %q", resp.Msg)
	}

	t.Run("duplicate username is 400", func(t *testing.T) {
		rec := env.doAs(t, nil, "POST", "/auth/register", RegisterRequest{
			Username: "alice",
			Password: "other",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("empty username is 400", func(t *testing.T) {
		rec := env.doAs(t, nil, "POST", "/auth/register", RegisterRequest{Password: "pw"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/auth/register", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleLogin(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "alice", "s3cret")

	rec := env.doAs(t, nil, "POST", "/auth/login", LoginRequest{
		Username: "alice",
		Password: "s3cret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp LoginResponse
	decodeBody(t, rec, &resp)
	if resp.AccessToken == "" {
		t.Error("access_token is empty")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}

	// Unknown username and wrong password must be indistinguishable.
	wrongPassword := env.doAs(t, nil, "POST", "/auth/login", LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	unknownUser := env.doAs(t, nil, "POST", "/auth/login", LoginRequest{
		Username: "nobody",
		Password: "s3cret",
	})

	if wrongPassword.Code != http.StatusBadRequest {
		t.Errorf("wrong password status = %d, want 400", wrongPassword.Code)
	}
	if unknownUser.Code != http.StatusBadRequest {
		t.Errorf("unknown user status = %d, want 400", unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("login failure bodies differ:\n%s\n%s",
			wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestHandleCreateTask(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice", "pw")

	t.Run("minimal task", func(t *testing.T) {
		rec := env.doAs(t, alice, "POST", "/tasks/", CreateTaskRequest{Title: "write report"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
		}

		var resp TaskResponse
		decodeBody(t, rec, &resp)
		if resp.ID == 0 {
			t.Error("id not assigned")
		}
		if resp.Title != "write report" {
			t.Errorf("title = %q", resp.Title)
		}
		if resp.Description != nil {
			t.Errorf("description = %v, want null", *resp.Description)
		}
		if resp.Status != "pending" {
			t.Errorf("status = %q, want pending", resp.Status)
		}
	})

	t.Run("null description serialized", func(t *testing.T) {
		rec := env.doAs(t, alice, "POST", "/tasks/", CreateTaskRequest{Title: "t"})
		if !bytes.Contains(rec.Body.Bytes(), []byte(`"description":null`)) {
			t.Errorf("body missing explicit null description: %s", rec.Body.String())
		}
	})

	t.Run("empty title is 400", func(t *testing.T) {
		rec := env.doAs(t, alice, "POST", "/tasks/", CreateTaskRequest{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleListTasks(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice", "pw")
	bob := env.registerUser(t, "bob", "pw")

	t.Run("empty list is json array", func(t *testing.T) {
		rec := env.doAs(t, alice, "GET", "/tasks/", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := bytes.TrimSpace(rec.Body.Bytes()); string(got) != "[]" {
			t.Errorf("body = %s, want []", got)
		}
	})

	env.doAs(t, alice, "POST", "/tasks/", CreateTaskRequest{Title: "first"})
	env.doAs(t, alice, "POST", "/tasks/", CreateTaskRequest{Title: "second"})
	env.doAs(t, bob, "POST", "/tasks/", CreateTaskRequest{Title: "bob task"})

	t.Run("only own tasks in creation order", func(t *testing.T) {
		rec := env.doAs(t, alice, "GET", "/tasks/", nil)

		var items []TaskResponse
		decodeBody(t, rec, &items)
		if len(items) != 2 {
			t.Fatalf("len = %d, want 2", len(items))
		}
		if items[0].Title != "first" || items[1].Title != "second" {
			t.Errorf("order = [%q %q]", items[0].Title, items[1].Title)
		}
	})
}

func TestHandleGetTask(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice", "pw")
	bob := env.registerUser(t, "bob", "pw")

	rec := env.doAs(t, alice, "POST", "/tasks/", CreateTaskRequest{Title: "mine"})
	var created TaskResponse
	decodeBody(t, rec, &created)

	t.Run("owner can read", func(t *testing.T) {
		rec := env.doAs(t, alice, "GET", "/tasks/1", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("other owner gets 404", func(t *testing.T) {
		rec := env.doAs(t, bob, "GET", "/tasks/1", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("nonexistent id gets 404", func(t *testing.T) {
		rec := env.doAs(t, alice, "GET", "/tasks/999", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("cross-owner and nonexistent are indistinguishable", func(t *testing.T) {
		crossOwner := env.doAs(t, bob, "GET", "/tasks/1", nil)
		nonexistent := env.doAs(t, bob, "GET", "/tasks/999", nil)
		if crossOwner.Body.String() != nonexistent.Body.String() {
			t.Errorf("404 bodies differ:\n%s\n%s",
				crossOwner.Body.String(), nonexistent.Body.String())
		}
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		rec := env.doAs(t, alice, "GET", "/tasks/abc", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleUpdateTask(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice", "pw")
	bob := env.registerUser(t, "bob", "pw")

	env.doAs(t, alice, "POST", "/tasks/", CreateTaskRequest{Title: "original"})

	t.Run("partial update", func(t *testing.T) {
		status := "completed"
		rec := env.doAs(t, alice, "PUT", "/tasks/1", UpdateTaskRequest{Status: &status})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
		}

		var resp TaskResponse
		decodeBody(t, rec, &resp)
		if resp.Status != "completed" {
			t.Errorf("status = %q, want completed", resp.Status)
		}
		if resp.Title != "original" {
			t.Errorf("title = %q, absent field must not change", resp.Title)
		}
	})

	t.Run("empty patch is accepted", func(t *testing.T) {
		rec := env.doAs(t, alice, "PUT", "/tasks/1", map[string]any{})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("unknown status is 400", func(t *testing.T) {
		status := "done"
		rec := env.doAs(t, alice, "PUT", "/tasks/1", UpdateTaskRequest{Status: &status})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("empty title is 400", func(t *testing.T) {
		title := ""
		rec := env.doAs(t, alice, "PUT", "/tasks/1", UpdateTaskRequest{Title: &title})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("other owner gets 404", func(t *testing.T) {
		title := "hijacked"
		rec := env.doAs(t, bob, "PUT", "/tasks/1", UpdateTaskRequest{Title: &title})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandleDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice", "pw")
	bob := env.registerUser(t, "bob", "pw")

	env.doAs(t, alice, "POST", "/tasks/", CreateTaskRequest{Title: "to delete"})

	t.Run("other owner gets 404", func(t *testing.T) {
		rec := env.doAs(t, bob, "DELETE", "/tasks/1", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		rec := env.doAs(t, alice, "DELETE", "/tasks/1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp MessageResponse
		decodeBody(t, rec, &resp)
		if resp.Msg != "Task deleted successfully" {
			t.Errorf("msg = %q", resp.Msg)
		}
	})

	t.Run("repeat delete gets 404", func(t *testing.T) {
		rec := env.doAs(t, alice, "DELETE", "/tasks/1", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health", "/ready"} {
		rec := env.doAs(t, nil, "GET", path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestWithIdentity_NoUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAs(t, nil, "GET", "/tasks/", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
