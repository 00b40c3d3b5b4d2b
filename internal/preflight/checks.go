package preflight

import (
	"fmt"
	"log"
	"net/url"

	"github.com/acarlson33/repo-version-checker/internal/config"
)

// CheckResult represents the result of a preflight check
type CheckResult struct {
	Name    string
	Status  string // "pass", "fail", "warning"
	Message string
	Error   error
}

// Checker performs pre-flight checks before server starts
type Checker struct {
	cfg *config.Config
}

// NewChecker creates a new preflight checker
func NewChecker(cfg *config.Config) *Checker {
	return &Checker{cfg: cfg}
}

// RunAll runs all preflight checks and returns results
func (c *Checker) RunAll() []CheckResult {
	log.Println("🔍 Running pre-flight checks...")

	results := []CheckResult{
		c.checkRepository(),
		c.checkGitHubAPIURL(),
		c.checkToken(),
	}

	passed := 0
	failed := 0
	warnings := 0

	for _, result := range results {
		switch result.Status {
		case "pass":
			log.Printf("   ✅ %s: %s", result.Name, result.Message)
			passed++
		case "fail":
			log.Printf("   ❌ %s: %s", result.Name, result.Message)
			if result.Error != nil {
				log.Printf("      Error: %v", result.Error)
			}
			failed++
		case "warning":
			log.Printf("   ⚠️  %s: %s", result.Name, result.Message)
			warnings++
		}
	}

	log.Printf("📊 Pre-flight summary: %d passed, %d failed, %d warnings", passed, failed, warnings)

	return results
}

// HasFailures returns true if any check failed
func HasFailures(results []CheckResult) bool {
	for _, result := range results {
		if result.Status == "fail" {
			return true
		}
	}
	return false
}

// checkRepository warns when owner/name are missing. Not fatal: every check
// request then answers with a configuration error instead.
func (c *Checker) checkRepository() CheckResult {
	if !c.cfg.RepositoryConfigured() {
		return CheckResult{
			Name:    "Repository",
			Status:  "warning",
			Message: "GITHUB_REPO_OWNER or GITHUB_REPO_NAME not set; version checks will fail",
		}
	}

	return CheckResult{
		Name:    "Repository",
		Status:  "pass",
		Message: fmt.Sprintf("Checking against %s", c.cfg.Repository()),
	}
}

// checkGitHubAPIURL verifies the API base is an absolute http(s) URL
func (c *Checker) checkGitHubAPIURL() CheckResult {
	u, err := url.Parse(c.cfg.GitHubAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return CheckResult{
			Name:    "GitHub API URL",
			Status:  "fail",
			Message: fmt.Sprintf("Invalid GITHUB_API_URL %q", c.cfg.GitHubAPIURL),
			Error:   err,
		}
	}

	return CheckResult{
		Name:    "GitHub API URL",
		Status:  "pass",
		Message: c.cfg.GitHubAPIURL,
	}
}

// checkToken warns about the unauthenticated rate limit (60 requests/hour per IP)
func (c *Checker) checkToken() CheckResult {
	if c.cfg.GitHubToken == "" {
		return CheckResult{
			Name:    "GitHub Token",
			Status:  "warning",
			Message: "GITHUB_TOKEN not set; unauthenticated requests are limited to 60/hour",
		}
	}

	return CheckResult{
		Name:    "GitHub Token",
		Status:  "pass",
		Message: "Bearer token configured",
	}
}
