package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/acarlson33/repo-version-checker/internal/config"
	"github.com/acarlson33/repo-version-checker/internal/github"
	"github.com/acarlson33/repo-version-checker/internal/models"
	"github.com/acarlson33/repo-version-checker/internal/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrCheckFailed is returned after a failure envelope has been printed
var ErrCheckFailed = errors.New("version check failed")

// flag name -> environment variable
var checkEnv = map[string]string{
	"owner":   "GITHUB_REPO_OWNER",
	"repo":    "GITHUB_REPO_NAME",
	"token":   "GITHUB_TOKEN",
	"api-url": "GITHUB_API_URL",
	"timeout": "GITHUB_TIMEOUT",
}

// NewCheckCmd builds the check command with its own viper instance
func NewCheckCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "check <version>",
		Short: "Check a version against the repository's latest release or tag",
		Long: `Resolve the latest release of the configured GitHub repository (falling back to
its first tag when no release exists) and report whether <version> is outdated.

Flags default to GITHUB_REPO_OWNER, GITHUB_REPO_NAME, GITHUB_TOKEN, GITHUB_API_URL and GITHUB_TIMEOUT.`,
		Example: `  versioncheck check 1.4.2 --owner octocat --repo hello-world
  versioncheck check v2.0.0 -o yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, v, args[0])
		},
	}

	flags := cmd.Flags()
	flags.String("owner", "", "Repository owner")
	flags.String("repo", "", "Repository name")
	flags.String("token", "", "GitHub token sent as a bearer credential")
	flags.String("api-url", config.DefaultGitHubAPIURL, "GitHub API base URL")
	flags.Duration("timeout", 0, "Per-request timeout (0 uses the transport default)")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")

	for name, env := range checkEnv {
		_ = v.BindPFlag(name, flags.Lookup(name))
		_ = v.BindEnv(name, env)
	}
	_ = v.BindPFlag("output", flags.Lookup("output"))

	return cmd
}

func runCheck(cmd *cobra.Command, v *viper.Viper, currentVersion string) error {
	output := v.GetString("output")
	switch output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	client := github.NewClient(github.ClientConfig{
		BaseURL: v.GetString("api-url"),
		Token:   v.GetString("token"),
		Timeout: v.GetDuration("timeout"),
	})
	service := services.NewVersionCheckService(v.GetString("owner"), v.GetString("repo"), client)

	result, err := service.Check(cmd.Context(), currentVersion)
	out := cmd.OutOrStdout()
	if err != nil {
		if werr := writeEnvelope(out, output, models.ErrorResponse{Success: false, Message: err.Error()}); werr != nil {
			return werr
		}
		return ErrCheckFailed
	}

	if output == "text" {
		return writeText(out, result)
	}
	return writeEnvelope(out, output, result.Response())
}

func writeEnvelope(w io.Writer, format string, envelope interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(envelope)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(envelope); err != nil {
			return err
		}
		return enc.Close()
	default:
		if e, ok := envelope.(models.ErrorResponse); ok {
			_, err := fmt.Fprintf(w, "❌ %s\n", e.Message)
			return err
		}
		return fmt.Errorf("unsupported envelope %T", envelope)
	}
}

func writeText(w io.Writer, result *models.CheckResult) error {
	latest := result.Latest.Name()
	if result.IsOutdated {
		_, err := fmt.Fprintf(w, "⚠️  %s is outdated: latest %s is %s (%s, %s)\n",
			result.CurrentVersion, result.Latest.Source, latest, *result.VersionDifference, result.Repository)
		return err
	}
	_, err := fmt.Fprintf(w, "✅ %s is up to date (latest %s is %s, %s)\n",
		result.CurrentVersion, result.Latest.Source, latest, result.Repository)
	return err
}
