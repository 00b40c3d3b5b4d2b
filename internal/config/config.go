package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultGitHubAPIURL is the public GitHub REST endpoint
const DefaultGitHubAPIURL = "https://api.github.com"

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string

	// Repository to check against
	RepoOwner   string
	RepoName    string
	GitHubToken string // optional, sent as a bearer token

	// Outbound GitHub client
	GitHubAPIURL         string
	GitHubTimeout        time.Duration // 0 keeps the transport default
	GitHubRateLimitRPS   float64
	GitHubRateLimitBurst int

	// Inbound
	AllowedOrigins string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Environment: strings.ToLower(getEnv("ENVIRONMENT", "")),

		RepoOwner:   strings.TrimSpace(os.Getenv("GITHUB_REPO_OWNER")),
		RepoName:    strings.TrimSpace(os.Getenv("GITHUB_REPO_NAME")),
		GitHubToken: strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),

		GitHubAPIURL:         strings.TrimRight(getEnv("GITHUB_API_URL", DefaultGitHubAPIURL), "/"),
		GitHubTimeout:        getDurationEnv("GITHUB_TIMEOUT", 0),
		GitHubRateLimitRPS:   getFloatEnv("GITHUB_RATE_LIMIT_RPS", 10),
		GitHubRateLimitBurst: getIntEnv("GITHUB_RATE_LIMIT_BURST", 20),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}
}

// RepositoryConfigured reports whether both owner and name are set
func (c *Config) RepositoryConfigured() bool {
	return c.RepoOwner != "" && c.RepoName != ""
}

// Repository returns the "owner/repo" slug
func (c *Config) Repository() string {
	return c.RepoOwner + "/" + c.RepoName
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
