package metric

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()

	m.RequestsTotal.WithLabelValues("GET", "/tasks/", "200").Inc()
	m.RequestDuration.WithLabelValues("GET", "/tasks/").Observe(0.05)
	m.UsersRegistered.Inc()
	m.LoginsTotal.WithLabelValues("success").Inc()
	m.TasksCreated.Inc()
	m.TasksDeleted.Inc()

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := make(map[string]bool)
	for _, f := range families {
		found[f.GetName()] = true
	}

	for _, name := range []string{
		"taskhub_http_requests_total",
		"taskhub_http_request_duration_seconds",
		"taskhub_auth_users_registered_total",
		"taskhub_auth_logins_total",
		"taskhub_tasks_created_total",
		"taskhub_tasks_deleted_total",
	} {
		if !found[name] {
			t.Errorf("metric %q not registered", name)
		}
	}
}

func TestHandler_ServesPrometheusFormat(t *testing.T) {
	m := New()
	m.TasksCreated.Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "taskhub_tasks_created_total 1") {
		t.Errorf("metrics output missing counter:\n%s", rec.Body.String())
	}
}
