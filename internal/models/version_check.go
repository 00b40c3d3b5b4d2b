package models

// VersionSource identifies where the latest version was resolved from
type VersionSource string

const (
	SourceRelease VersionSource = "release"
	SourceTag     VersionSource = "tag"
)

// Release is the subset of a GitHub release payload the checker reports
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        *string `json:"name"`         // null for releases created without a title
	PublishedAt *string `json:"published_at"` // null for drafts
	HTMLURL     string  `json:"html_url"`
	Prerelease  bool    `json:"prerelease"`
	Draft       bool    `json:"draft"`
}

// Tag is a single entry of the GitHub tags listing
type Tag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// LatestVersion is the resolved latest version; exactly one of Release or Tag is set
type LatestVersion struct {
	Source  VersionSource
	Release *Release
	Tag     *Tag
}

// Name returns the version string of whichever record was resolved
func (l *LatestVersion) Name() string {
	if l.Release != nil {
		return l.Release.TagName
	}
	if l.Tag != nil {
		return l.Tag.Name
	}
	return ""
}

// CheckRequest is the inbound request body. Only version is read.
type CheckRequest struct {
	Version *string `json:"version"`
}

// CheckResult is the outcome of a successful version check
type CheckResult struct {
	Latest            *LatestVersion
	CurrentVersion    string
	IsOutdated        bool
	VersionDifference *string // set only when IsOutdated
	Repository        string  // "owner/repo"
}

// ReleaseCheckResponse is the success envelope when the latest version came from a release
type ReleaseCheckResponse struct {
	Success           bool          `json:"success" yaml:"success"`
	LatestVersion     string        `json:"latestVersion" yaml:"latestVersion"`
	CurrentVersion    string        `json:"currentVersion" yaml:"currentVersion"`
	IsOutdated        bool          `json:"isOutdated" yaml:"isOutdated"`
	VersionDifference *string       `json:"versionDifference" yaml:"versionDifference"`
	Name              *string       `json:"name" yaml:"name"`
	PublishedAt       *string       `json:"publishedAt" yaml:"publishedAt"`
	HTMLURL           string        `json:"htmlUrl" yaml:"htmlUrl"`
	Prerelease        bool          `json:"prerelease" yaml:"prerelease"`
	Draft             bool          `json:"draft" yaml:"draft"`
	Source            VersionSource `json:"source" yaml:"source"`
	Repository        string        `json:"repository" yaml:"repository"`
}

// TagCheckResponse is the success envelope when the latest version came from a tag
type TagCheckResponse struct {
	Success           bool          `json:"success" yaml:"success"`
	LatestVersion     string        `json:"latestVersion" yaml:"latestVersion"`
	CurrentVersion    string        `json:"currentVersion" yaml:"currentVersion"`
	IsOutdated        bool          `json:"isOutdated" yaml:"isOutdated"`
	VersionDifference *string       `json:"versionDifference" yaml:"versionDifference"`
	CommitSHA         string        `json:"commitSha" yaml:"commitSha"`
	Source            VersionSource `json:"source" yaml:"source"`
	Repository        string        `json:"repository" yaml:"repository"`
}

// ErrorResponse is the failure envelope shared by every error outcome
type ErrorResponse struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}

// Response builds the success envelope matching the result's source
func (r *CheckResult) Response() interface{} {
	if r.Latest.Source == SourceTag && r.Latest.Tag != nil {
		return &TagCheckResponse{
			Success:           true,
			LatestVersion:     r.Latest.Tag.Name,
			CurrentVersion:    r.CurrentVersion,
			IsOutdated:        r.IsOutdated,
			VersionDifference: r.VersionDifference,
			CommitSHA:         r.Latest.Tag.Commit.SHA,
			Source:            SourceTag,
			Repository:        r.Repository,
		}
	}

	release := r.Latest.Release
	return &ReleaseCheckResponse{
		Success:           true,
		LatestVersion:     release.TagName,
		CurrentVersion:    r.CurrentVersion,
		IsOutdated:        r.IsOutdated,
		VersionDifference: r.VersionDifference,
		Name:              release.Name,
		PublishedAt:       release.PublishedAt,
		HTMLURL:           release.HTMLURL,
		Prerelease:        release.Prerelease,
		Draft:             release.Draft,
		Source:            SourceRelease,
		Repository:        r.Repository,
	}
}
