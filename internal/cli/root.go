package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cdkinit/cdkinit/internal/assets"
	"github.com/cdkinit/cdkinit/internal/branding"
	"github.com/cdkinit/cdkinit/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <app-name>",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a new AWS CDK TypeScript project in ./<app-name>.

The project gets a bin/lib/test/src/events layout, Vitest and Biome
configuration, and its npm dependencies installed unless --no-install
is given. Spaces in the name become hyphens.

A name that matches a subcommand (config, version, help, completion) or
starts with "-" must follow "--", after every flag:
  ` + branding.CLIName() + ` --no-install -- config

Examples:
  ` + branding.CLIName() + ` my-cdk-app
  ` + branding.CLIName() + ` "my cdk app" --no-install
  ` + branding.CLIName() + ` orders-service --dir ~/src`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCreate,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	configureVersion(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func configureVersion(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionLine() + "\n")
}

// versionLine describes the binary and the template bundle it embeds.
func versionLine() string {
	bundle := "unknown"
	if v, err := assets.BundleVersion(); err == nil {
		bundle = v.String()
	}
	return fmt.Sprintf("%s version %s (commit: %s, built: %s, templates: %s)",
		branding.CLIName(), buildVersion, buildCommit, buildDate, bundle)
}

// printError writes the failure and, when known, what to do about it.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var se *pipeline.StageError
	if errors.As(err, &se) && se.Hint() != "" {
		fmt.Fprintln(w, se.Hint())
	}
}
