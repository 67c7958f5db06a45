package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBackendStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "stub-token",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/jobs/dashboard/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stub-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "Peachtree St", "job_number": "JOB-1", "status": "ANALYZING"},
			{"id": 2, "name": "Midtown", "job_number": "JOB-2", "status": "PENDING"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDashboardRequiresLogin(t *testing.T) {
	env := setupCLITestEnv(t)
	server := newBackendStub(t)
	env.cfg.API.BaseURL = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"dashboard"}, env.configPath)
	if err == nil {
		t.Fatal("dashboard succeeded without a session")
	}
	requireContains(t, err.Error(), "No authentication token found")
}

func TestDashboardHighlightMarksRow(t *testing.T) {
	env := setupCLITestEnv(t)
	server := newBackendStub(t)
	env.cfg.API.BaseURL = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	if _, _, err := runCLI(t, []string{"login", "--email", "ops@example.com", "--password", "secret"}, env.configPath); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, _, err := runCLI(t, []string{"dashboard", "--highlight", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("dashboard --highlight: %v", err)
	}
	requireContains(t, out, "> * JOB-1")

	out, _, err = runCLI(t, []string{"dashboard"}, env.configPath)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if strings.Contains(out, "> JOB-1") || strings.Contains(out, "* JOB-1") {
		t.Fatalf("highlight leaked into a fresh invocation:\n%s", out)
	}
}

func TestLoginThenDashboard(t *testing.T) {
	env := setupCLITestEnv(t)
	server := newBackendStub(t)
	env.cfg.API.BaseURL = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"login", "--email", "ops@example.com", "--password", "secret"}, env.configPath)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	requireContains(t, out, "Logged in as ops@example.com")

	out, _, err = runCLI(t, []string{"dashboard"}, env.configPath)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	requireContains(t, out, "JOB-1")
	requireContains(t, out, "Analyzing")

	out, _, err = runCLI(t, []string{"dashboard", "--filter", "midtown"}, env.configPath)
	if err != nil {
		t.Fatalf("dashboard --filter: %v", err)
	}
	requireContains(t, out, "JOB-2")
	if _, _, err := runCLI(t, []string{"logout"}, env.configPath); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := runCLI(t, []string{"dashboard"}, env.configPath); err == nil {
		t.Fatal("dashboard succeeded after logout")
	}
}
