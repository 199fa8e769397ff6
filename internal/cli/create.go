package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cdkinit/cdkinit/internal/assets"
	"github.com/cdkinit/cdkinit/internal/branding"
	"github.com/cdkinit/cdkinit/internal/config"
	"github.com/cdkinit/cdkinit/internal/installer"
	"github.com/cdkinit/cdkinit/internal/pipeline"
	"github.com/cdkinit/cdkinit/internal/remote"
	"github.com/cdkinit/cdkinit/internal/scaffold"
	"github.com/cdkinit/cdkinit/internal/ui"
	"github.com/spf13/cobra"
)

var (
	createNoInstall bool
	createRootDir   string
	createVerbose   bool
)

func init() {
	rootCmd.Flags().BoolVarP(&createNoInstall, "no-install", "n", false, "Skip installing dependencies")
	rootCmd.Flags().StringVar(&createRootDir, "dir", "", "Parent directory of the new project (default: current directory)")
	rootCmd.Flags().BoolVarP(&createVerbose, "verbose", "v", false, "Log every step to stderr")
}

func runCreate(cmd *cobra.Command, args []string) error {
	config.Load()
	settings, err := config.Current()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	runner := &installer.ExecRunner{}
	var logger *slog.Logger
	if createVerbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		runner.Stdout = stderr
		runner.Stderr = stderr
	}

	p := &pipeline.Pipeline{
		Loader: &scaffold.Loader{
			Assets: assets.Embedded(),
			Fetcher: remote.New(
				remote.WithUserAgent(branding.UserAgent(buildVersion)),
				remote.WithTimeout(settings.HTTPTimeout),
			),
			TSConfigURL: settings.TSConfigURL,
			BiomeURL:    settings.BiomeURL,
		},
		Installer: &installer.Installer{Runner: runner, Command: settings.PackageManager},
		Progress:  ui.NewProgress(stdout),
		Logger:    logger,
	}

	result, err := p.Run(cmd.Context(), pipeline.Options{
		Name:        args[0],
		Root:        createRootDir,
		SkipInstall: createNoInstall,
	})
	if err != nil {
		return err
	}

	printResult(stdout, result, settings.PackageManager)
	return nil
}

// printResult prints the next step for a freshly created project.
func printResult(w io.Writer, result *pipeline.Result, packageManager string) {
	fmt.Fprintf(w, "\nTo start working, run:\n\ncd %s\n", result.Layout.Base)
	if !result.Installed {
		fmt.Fprintf(w, "%s install\n", packageManager)
	}
}
