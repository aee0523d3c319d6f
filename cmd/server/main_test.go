package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cashpulse/internal/config"
	"cashpulse/internal/logging"
	"cashpulse/internal/models"
	"cashpulse/internal/sample"
	"cashpulse/internal/testutil"
)

// setupTestServer initializes dependencies from the test environment and
// returns a test server
func setupTestServer(t *testing.T) *testutil.TestServer {
	t.Helper()

	testutil.SetTestEnv(t)
	logger = logging.Discard()

	if err := SetupDependencies(config.FromEnv()); err != nil {
		t.Fatalf("Failed to setup dependencies: %v", err)
	}

	ts := testutil.NewTestServer(t, SetupRouter())
	t.Cleanup(ts.Close)
	return ts
}

// TestHealthEndpoints tests /health and /api/health
func TestHealthEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp := ts.GET(path)
		testutil.AssertResponse(t, resp).
			StatusOK().
			ContentTypeJSON().
			Contains(`"status":"ok"`)
	}
}

// TestAnalyzeEndpoint posts the sample ledger through the full middleware stack
func TestAnalyzeEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.POSTJSON("/api/analyze", sample.Ledger(time.Now()))

	var report models.Report
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeJSON().
		Header("X-Analysis-ID").
		DecodeJSON(&report)

	if !report.Success || len(report.Patterns) == 0 {
		t.Errorf("Unexpected report: success=%v patterns=%d", report.Success, len(report.Patterns))
	}
}

// TestMalformedBody tests that bad JSON yields a 400 with the error envelope
func TestMalformedBody(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.POST("/api/analyze", "application/json", strings.NewReader("not json"))
	testutil.AssertResponse(t, resp).
		Status(http.StatusBadRequest).
		JSONField("sucesso", false)
}

// TestUnknownRoutes tests the JSON 404 and 405 responses
func TestUnknownRoutes(t *testing.T) {
	ts := setupTestServer(t)

	testutil.AssertResponse(t, ts.GET("/dashboard")).
		Status(http.StatusNotFound).
		JSONField("sucesso", false)

	testutil.AssertResponse(t, ts.GET("/api/analyze")).
		Status(http.StatusMethodNotAllowed).
		JSONField("sucesso", false)
}

// TestCORSHeaders tests that configured origins are echoed
func TestCORSHeaders(t *testing.T) {
	ts := setupTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.BaseURL+"/api/analyze", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
}

// TestSetupDependenciesErrors tests that bad policy files and locales fail startup
func TestSetupDependenciesErrors(t *testing.T) {
	logger = logging.Discard()

	badPolicy := filepath.Join(t.TempDir(), "policy.json")
	if err := os.WriteFile(badPolicy, []byte(`{"estimator": "oracle"}`), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"missing policy file", func(c *config.Config) { c.PolicyFile = filepath.Join(t.TempDir(), "absent.json") }},
		{"invalid policy", func(c *config.Config) { c.PolicyFile = badPolicy }},
		{"unknown locale", func(c *config.Config) { c.Locale = "klingon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.DefaultConfig()
			tt.modify(c)
			if err := SetupDependencies(c); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
