package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/acarlson33/repo-version-checker/internal/github"
	"github.com/acarlson33/repo-version-checker/internal/logging"
	"github.com/acarlson33/repo-version-checker/internal/models"
	"github.com/acarlson33/repo-version-checker/internal/version"
)

var (
	// ErrRepositoryNotConfigured is returned when owner or repo name is missing
	ErrRepositoryNotConfigured = errors.New("Repository not configured. Set GITHUB_REPO_OWNER and GITHUB_REPO_NAME environment variables.")
	// ErrMissingVersion is returned when the request carries no version
	ErrMissingVersion = errors.New("Missing required parameter: version")
	// ErrNoVersionsFound is the soft failure for a repository without releases or tags
	ErrNoVersionsFound = errors.New("No releases or tags found for this repository")
)

// ReleaseSource is the remote lookup used by the checker
type ReleaseSource interface {
	LatestRelease(ctx context.Context, owner, repo string) (*models.Release, error)
	ListTags(ctx context.Context, owner, repo string) ([]models.Tag, error)
}

// VersionCheckService compares caller versions against a repository's latest version
type VersionCheckService struct {
	owner  string
	repo   string
	source ReleaseSource
}

// NewVersionCheckService creates a checker for owner/repo. Either may be empty;
// every check then fails with ErrRepositoryNotConfigured.
func NewVersionCheckService(owner, repo string, source ReleaseSource) *VersionCheckService {
	return &VersionCheckService{owner: owner, repo: repo, source: source}
}

// Configured reports whether owner and repo are both set
func (s *VersionCheckService) Configured() bool {
	return s.owner != "" && s.repo != ""
}

// Repository returns the "owner/repo" slug
func (s *VersionCheckService) Repository() string {
	return s.owner + "/" + s.repo
}

// CheckBody validates configuration, decodes a JSON request body and runs the check.
// An empty body is treated as an empty object.
func (s *VersionCheckService) CheckBody(ctx context.Context, body []byte) (*models.CheckResult, error) {
	if !s.Configured() {
		return nil, ErrRepositoryNotConfigured
	}

	var req models.CheckRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
	}

	var v string
	if req.Version != nil {
		v = *req.Version
	}
	return s.Check(ctx, v)
}

// Check resolves the latest version and compares currentVersion against it
func (s *VersionCheckService) Check(ctx context.Context, currentVersion string) (*models.CheckResult, error) {
	if !s.Configured() {
		return nil, ErrRepositoryNotConfigured
	}
	if currentVersion == "" {
		return nil, ErrMissingVersion
	}

	logger := logging.FromContext(ctx).With("repository", s.Repository())
	ctx = logging.NewContext(ctx, logger)
	logger.Info("Checking version against latest", "version", currentVersion)
	if !version.IsSemver(currentVersion) {
		logger.Debug("Version is not semver, comparing leniently", "version", currentVersion)
	}

	latest, err := s.ResolveLatest(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoVersionsFound):
			GetMetrics().RecordCheck("none", "no_versions")
		default:
			GetMetrics().RecordCheck("none", "error")
		}
		return nil, err
	}

	result := &models.CheckResult{
		Latest:         latest,
		CurrentVersion: currentVersion,
		IsOutdated:     version.Compare(currentVersion, latest.Name()) < 0,
		Repository:     s.Repository(),
	}
	if result.IsOutdated {
		diff := version.Difference(currentVersion, latest.Name())
		result.VersionDifference = &diff
	}

	outcome := "current"
	if result.IsOutdated {
		outcome = "outdated"
	}
	GetMetrics().RecordCheck(string(latest.Source), outcome)

	logger.Debug("Version check complete",
		"latest", latest.Name(),
		"source", latest.Source,
		"outdated", result.IsOutdated,
	)
	return result, nil
}

// ResolveLatest returns the latest release, falling back to the first tag when
// the repository has no releases. Tags are only fetched after a 404 on the release.
func (s *VersionCheckService) ResolveLatest(ctx context.Context) (*models.LatestVersion, error) {
	start := time.Now()
	release, err := s.source.LatestRelease(ctx, s.owner, s.repo)
	recordGitHubCall("releases/latest", err, time.Since(start))
	if err == nil {
		return &models.LatestVersion{Source: models.SourceRelease, Release: release}, nil
	}
	if !errors.Is(err, github.ErrNotFound) {
		return nil, err
	}

	logging.FromContext(ctx).Debug("No release found, falling back to tags")

	start = time.Now()
	tags, err := s.source.ListTags(ctx, s.owner, s.repo)
	recordGitHubCall("tags", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, ErrNoVersionsFound
	}

	return &models.LatestVersion{Source: models.SourceTag, Tag: &tags[0]}, nil
}

func recordGitHubCall(endpoint string, err error, elapsed time.Duration) {
	status := "2xx"
	var apiErr *github.APIError
	switch {
	case err == nil:
	case errors.As(err, &apiErr):
		status = strconv.Itoa(apiErr.StatusCode)
	default:
		status = "error"
	}
	GetMetrics().RecordGitHubRequest(endpoint, status, elapsed)
}
