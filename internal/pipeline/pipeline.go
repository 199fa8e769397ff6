package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cdkinit/cdkinit/internal/assets"
	"github.com/cdkinit/cdkinit/internal/installer"
	"github.com/cdkinit/cdkinit/internal/naming"
	"github.com/cdkinit/cdkinit/internal/remote"
	"github.com/cdkinit/cdkinit/internal/scaffold"
	"github.com/cdkinit/cdkinit/internal/ui"
)

// Options describes one project creation.
type Options struct {
	Name        string
	Root        string // parent directory, "." when empty
	SkipInstall bool
}

// Result describes what a run produced. It is returned alongside an install
// failure, since the project is already on disk at that point.
type Result struct {
	Names     naming.AppNameSet
	Layout    scaffold.Layout
	Files     []string
	Created   bool
	Installed bool
}

// Pipeline wires the components of a project creation together.
type Pipeline struct {
	Loader    *scaffold.Loader
	Installer *installer.Installer
	Progress  ui.Progress
	Logger    *slog.Logger
}

// Run executes the workflow once. Stages run strictly in order and the
// first failure stops the run; files already written are left in place.
//
// Templates, including both remote documents, are loaded before any
// directory is created, so a fetch failure leaves nothing on disk and a
// retry with the same name does not collide with a half-made project.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	log := p.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	progress := p.Progress
	if progress == nil {
		progress = ui.Discard()
	}
	root := opts.Root
	if root == "" {
		root = "."
	}

	log.Debug("stage", "stage", StageStart, "name", opts.Name, "root", root)

	names, err := naming.Resolve(root, opts.Name)
	if err != nil {
		return nil, p.fail(log, StageNameValidated, err, "")
	}
	log.Debug("stage", "stage", StageNameValidated, "normalized", names.Normalized)

	spin := progress.Spinner(fmt.Sprintf("Creating a new CDK project with name %s...", names.Normalized))

	files, err := p.Loader.Load(ctx, *names)
	if err != nil {
		spin.Fail("Could not load project templates")
		return nil, p.fail(log, StageTemplatesLoaded, err, "")
	}
	log.Debug("stage", "stage", StageTemplatesLoaded, "files", files.Len())

	layout := scaffold.NewLayout(root, names.Normalized)
	spin.SetTitle(fmt.Sprintf("Writing %d files to %s...", files.Len(), layout.Base))
	written, err := scaffold.Materialize(layout, files)
	if err != nil {
		spin.Fail("Could not write the project files")
		return nil, p.fail(log, materializeStage(err), err, "")
	}
	log.Debug("stage", "stage", StageDirectoriesCreated, "base", layout.Base)
	log.Debug("stage", "stage", StageFilesWritten, "files", len(written.Files))
	spin.Success("Scaffolding complete!")

	result := &Result{
		Names:   *names,
		Layout:  layout,
		Files:   written.Files,
		Created: true,
	}

	if opts.SkipInstall {
		log.Debug("stage", "stage", StageInstallSkipped)
		log.Debug("stage", "stage", StageDone)
		return result, nil
	}

	command := p.Installer.Command
	if command == "" {
		command = installer.DefaultCommand
	}
	spin = progress.Spinner(fmt.Sprintf("Installing %s packages...", command))
	if err := p.Installer.Install(ctx, layout.Base); err != nil {
		spin.Fail("Could not install dependencies")
		hint := fmt.Sprintf("The project was created. Run %q inside %s to retry.", command+" install", layout.Base)
		return result, p.fail(log, StageDependenciesInstalled, err, hint)
	}
	spin.Success("New CDK project created successfully!")
	result.Installed = true

	log.Debug("stage", "stage", StageDependenciesInstalled, "command", command)
	log.Debug("stage", "stage", StageDone)
	return result, nil
}

func (p *Pipeline) fail(log *slog.Logger, stage Stage, err error, hint string) error {
	if hint == "" {
		hint = hintFor(err)
	}
	log.Debug("stage", "stage", StageFailed, "failed_at", stage, "error", err)
	return &StageError{Stage: stage, Err: err, hint: hint}
}

// materializeStage tells a failed directory creation from a failed write.
func materializeStage(err error) Stage {
	var fe *scaffold.FilesystemError
	if errors.As(err, &fe) && fe.Op == scaffold.OpCreateDir {
		return StageDirectoriesCreated
	}
	return StageFilesWritten
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, naming.ErrInvalidName):
		return fmt.Sprintf("App names may contain letters, digits, '-' and '_', up to %d characters.", naming.MaxLength)
	case errors.Is(err, naming.ErrAlreadyExists):
		return "Choose a different name or remove the existing directory."
	case errors.Is(err, remote.ErrRemoteFetch):
		return "Check your internet connection, or point tsconfig_url and biome_url at reachable copies with the config command."
	case errors.Is(err, assets.ErrPackaging):
		return "The embedded templates look corrupted. Reinstall the tool."
	case errors.Is(err, scaffold.ErrFilesystem):
		return "Check that you can write to the target directory and that the disk is not full."
	case errors.Is(err, context.Canceled):
		return "The operation was interrupted."
	default:
		return ""
	}
}
