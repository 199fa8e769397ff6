package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ErrNotFound is wrapped by Runner errors when the executable cannot be located.
var ErrNotFound = errors.New("executable not found")

// Runner executes an external command.
type Runner interface {
	// Run executes name with args in dir. A non-zero exit is reported through
	// Output.ExitCode with a nil error; the error is reserved for commands
	// that could not be started.
	Run(ctx context.Context, name string, args []string, dir string) (*Output, error)
}

// Output captures the result of a command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExecRunner runs commands as real subprocesses.
type ExecRunner struct {
	// Stdout and Stderr, when set, also receive the command's streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Run resolves name on PATH and executes it in dir, capturing both streams.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, dir string) (*Output, error) {
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = tee(&stdoutBuf, r.Stdout)
	cmd.Stderr = tee(&stderrBuf, r.Stderr)

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", name, err)
	}
	return output, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}
