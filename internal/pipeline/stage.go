package pipeline

import (
	"errors"
	"fmt"
)

// Stage is a step of the creation workflow.
type Stage string

const (
	StageStart                 Stage = "start"
	StageNameValidated         Stage = "name-validated"
	StageTemplatesLoaded       Stage = "templates-loaded"
	StageDirectoriesCreated    Stage = "directories-created"
	StageFilesWritten          Stage = "files-written"
	StageInstallSkipped        Stage = "install-skipped"
	StageDependenciesInstalled Stage = "dependencies-installed"
	StageDone                  Stage = "done"
	StageFailed                Stage = "failed"
)

// action describes the work that leads into s.
func (s Stage) action() string {
	switch s {
	case StageNameValidated:
		return "validating app name"
	case StageTemplatesLoaded:
		return "loading templates"
	case StageDirectoriesCreated:
		return "creating directories"
	case StageFilesWritten:
		return "writing files"
	case StageDependenciesInstalled:
		return "installing dependencies"
	default:
		return string(s)
	}
}

// ErrStage matches every *StageError.
var ErrStage = errors.New("project creation failed")

// StageError reports the stage a run failed to reach and why.
type StageError struct {
	Stage Stage
	Err   error
	hint  string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage.action(), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func (e *StageError) Is(target error) bool { return target == ErrStage }

// Hint returns a follow-up suggestion for the user, or "".
func (e *StageError) Hint() string { return e.hint }
