package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultCommand is the package manager used when none is configured.
const DefaultCommand = "npm"

// ErrInstall matches every *InstallError.
var ErrInstall = errors.New("dependency installation failed")

// InstallError reports a package manager that failed or could not be run.
type InstallError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error // set when the command could not be started
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		if errors.Is(e.Err, ErrNotFound) {
			return fmt.Sprintf("could not locate %s: make sure it is installed and available in your PATH", e.Command)
		}
		return fmt.Sprintf("could not run %s install: %v", e.Command, e.Err)
	}
	msg := fmt.Sprintf("%s install failed with exit code %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += fmt.Sprintf("\n%s error: %s", e.Command, stderr)
	}
	return msg
}

func (e *InstallError) Unwrap() error { return e.Err }

func (e *InstallError) Is(target error) bool { return target == ErrInstall }

// Installer installs the dependencies of a generated project.
type Installer struct {
	Runner  Runner
	Command string
}

// New returns an Installer that runs command through a real subprocess.
func New(command string) *Installer {
	if command == "" {
		command = DefaultCommand
	}
	return &Installer{Runner: &ExecRunner{}, Command: command}
}

// Install runs "<command> install" with dir as working directory.
func (i *Installer) Install(ctx context.Context, dir string) error {
	command := i.Command
	if command == "" {
		command = DefaultCommand
	}

	out, err := i.Runner.Run(ctx, command, []string{"install"}, dir)
	if err != nil {
		return &InstallError{Command: command, Err: err}
	}
	if out.ExitCode != 0 {
		return &InstallError{Command: command, ExitCode: out.ExitCode, Stderr: out.Stderr}
	}
	return nil
}
