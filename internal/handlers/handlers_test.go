package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acarlson33/repo-version-checker/internal/github"
	"github.com/acarlson33/repo-version-checker/internal/services"
	"github.com/gofiber/fiber/v2"
)

// fakeGitHub serves canned responses keyed by request path
type fakeGitHub struct {
	responses map[string]fakeResponse
	hits      map[string]int
}

type fakeResponse struct {
	status int
	body   string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits[r.URL.Path]++
	resp, ok := f.responses[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}

func setupTestApp(t *testing.T, owner, repo string, responses map[string]fakeResponse) (*fiber.App, *fakeGitHub) {
	upstream := &fakeGitHub{responses: responses, hits: map[string]int{}}
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client := github.NewClient(github.ClientConfig{BaseURL: server.URL})
	service := services.NewVersionCheckService(owner, repo, client)

	app := fiber.New()
	app.Post("/", NewVersionCheckHandler(service).Handle)
	app.Get("/health", NewHealthHandler(service).Handle)

	return app, upstream
}

func postCheck(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("Failed to parse JSON %q: %v", raw, err)
	}
	return resp.StatusCode, result
}

const releasePath = "/repos/octocat/hello-world/releases/latest"
const tagsPath = "/repos/octocat/hello-world/tags"

func TestVersionCheck_ReleaseOutdated(t *testing.T) {
	app, upstream := setupTestApp(t, "octocat", "hello-world", map[string]fakeResponse{
		releasePath: {http.StatusOK, `{"tag_name":"v2.0.0","name":"Version 2","published_at":"2024-05-01T00:00:00Z","html_url":"https://github.com/octocat/hello-world/releases/tag/v2.0.0","prerelease":false,"draft":false}`},
	})

	status, result := postCheck(t, app, `{"version":"1.5.0"}`)

	if status != fiber.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	expected := map[string]interface{}{
		"success":           true,
		"latestVersion":     "v2.0.0",
		"currentVersion":    "1.5.0",
		"isOutdated":        true,
		"versionDifference": "1 major version",
		"name":              "Version 2",
		"publishedAt":       "2024-05-01T00:00:00Z",
		"htmlUrl":           "https://github.com/octocat/hello-world/releases/tag/v2.0.0",
		"prerelease":        false,
		"draft":             false,
		"source":            "release",
		"repository":        "octocat/hello-world",
	}
	for key, want := range expected {
		if result[key] != want {
			t.Errorf("Expected %s=%v, got %v", key, want, result[key])
		}
	}
	if _, ok := result["commitSha"]; ok {
		t.Error("Release envelope must not carry commitSha")
	}
	if upstream.hits[tagsPath] != 0 {
		t.Error("Tags must not be requested when a release exists")
	}
}

func TestVersionCheck_TagFallback(t *testing.T) {
	app, upstream := setupTestApp(t, "octocat", "hello-world", map[string]fakeResponse{
		tagsPath: {http.StatusOK, `[{"name":"v1.0.0","commit":{"sha":"c0ffee"}},{"name":"v0.9.0","commit":{"sha":"bead"}}]`},
	})

	status, result := postCheck(t, app, `{"version":"1.0.0"}`)

	if status != fiber.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if result["success"] != true || result["source"] != "tag" {
		t.Fatalf("Expected tag success envelope, got %v", result)
	}
	if result["isOutdated"] != false {
		t.Errorf("Expected isOutdated=false, got %v", result["isOutdated"])
	}
	if v, ok := result["versionDifference"]; !ok || v != nil {
		t.Errorf("Expected versionDifference=null, got %v (present=%v)", v, ok)
	}
	if result["commitSha"] != "c0ffee" {
		t.Errorf("Expected commitSha of first tag, got %v", result["commitSha"])
	}
	if result["latestVersion"] != "v1.0.0" {
		t.Errorf("Expected latestVersion v1.0.0, got %v", result["latestVersion"])
	}
	if _, ok := result["htmlUrl"]; ok {
		t.Error("Tag envelope must not carry release fields")
	}
	if upstream.hits[releasePath] != 1 || upstream.hits[tagsPath] != 1 {
		t.Errorf("Expected one call each, got %v", upstream.hits)
	}
}

func TestVersionCheck_NoReleasesOrTags(t *testing.T) {
	app, _ := setupTestApp(t, "octocat", "hello-world", map[string]fakeResponse{
		tagsPath: {http.StatusOK, `[]`},
	})

	status, result := postCheck(t, app, `{"version":"1.0.0"}`)

	if status != fiber.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if result["success"] != false {
		t.Errorf("Expected success=false, got %v", result["success"])
	}
	if result["message"] != "No releases or tags found for this repository" {
		t.Errorf("Unexpected message %v", result["message"])
	}
}

func TestVersionCheck_NotConfigured(t *testing.T) {
	app, upstream := setupTestApp(t, "", "hello-world", nil)

	status, result := postCheck(t, app, `{"version":"1.0.0"}`)

	if status != fiber.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", status)
	}
	if result["success"] != false {
		t.Errorf("Expected success=false, got %v", result["success"])
	}
	if msg, _ := result["message"].(string); !strings.Contains(msg, "GITHUB_REPO_OWNER") {
		t.Errorf("Expected configuration hint, got %q", msg)
	}
	if len(upstream.hits) != 0 {
		t.Error("No upstream call expected without configuration")
	}
}

func TestVersionCheck_MissingVersion(t *testing.T) {
	app, _ := setupTestApp(t, "octocat", "hello-world", nil)

	for _, body := range []string{``, `{}`, `{"version":""}`, `{"other":"1.0.0"}`} {
		status, result := postCheck(t, app, body)
		if status != fiber.StatusBadRequest {
			t.Errorf("Body %q: expected status 400, got %d", body, status)
		}
		if result["message"] != "Missing required parameter: version" {
			t.Errorf("Body %q: unexpected message %v", body, result["message"])
		}
	}
}

func TestVersionCheck_UpstreamError(t *testing.T) {
	app, upstream := setupTestApp(t, "octocat", "hello-world", map[string]fakeResponse{
		releasePath: {http.StatusInternalServerError, `{}`},
	})

	status, result := postCheck(t, app, `{"version":"1.0.0"}`)

	if status != fiber.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", status)
	}
	if result["message"] != "GitHub API error: Internal Server Error" {
		t.Errorf("Unexpected message %v", result["message"])
	}
	if upstream.hits[tagsPath] != 0 {
		t.Error("Tags must not be requested after a non-404 failure")
	}
}

func TestVersionCheck_InvalidJSON(t *testing.T) {
	app, _ := setupTestApp(t, "octocat", "hello-world", nil)

	status, result := postCheck(t, app, `{"version":`)

	if status != fiber.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", status)
	}
	if result["success"] != false || result["message"] == "" {
		t.Errorf("Expected failure envelope with message, got %v", result)
	}
}

// TestHealthHandler tests the health check endpoint
func TestHealthHandler(t *testing.T) {
	app, _ := setupTestApp(t, "octocat", "hello-world", nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if result["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", result["status"])
	}
	if result["repository"] != "octocat/hello-world" {
		t.Errorf("Expected repository slug, got %v", result["repository"])
	}
	if result["configured"] != true {
		t.Errorf("Expected configured=true, got %v", result["configured"])
	}
	if result["timestamp"] == nil {
		t.Error("Expected 'timestamp' field in response")
	}
}
