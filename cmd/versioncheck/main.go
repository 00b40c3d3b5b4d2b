package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/acarlson33/repo-version-checker/internal/commands"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=X.Y.Z"
var Version = "0.0.0-dev"

func main() {
	// Optional, same file the server reads
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "versioncheck",
		Short:         "Compare a version against a GitHub repository's latest release",
		Version:       Version,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(commands.NewCheckCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, commands.ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
