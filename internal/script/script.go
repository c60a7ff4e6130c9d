// Package script stages bundled shell scripts onto disk and executes them.
//
// Bundled scripts cannot be executed from inside the binary, so each run
// copies the entry script and its helpers into a fresh directory under the
// target directory, marks them executable, runs the entry script from the
// target directory and removes the staging directory afterwards.
package script

import (
	"errors"
	"fmt"
)

//go:generate mockgen -destination=mocks/mock_script.go -package=mocks skuntir.com/BuildScripts/internal/script Logger
//go:generate mockgen -destination=mocks/mock_loader.go -package=mocks skuntir.com/BuildScripts/internal/resource Loader

// Script names an entry file and the helper files staged next to it.
type Script struct {
	FileName     string
	Dependencies []string
}

// Files returns the dependencies followed by the entry file, in staging order.
func (s Script) Files() []string {
	out := make([]string, 0, len(s.Dependencies)+1)
	out = append(out, s.Dependencies...)
	return append(out, s.FileName)
}

// Logger receives script output. *slog.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

var (
	// ErrResourceNotFound matches errors for scripts missing from the loader.
	ErrResourceNotFound = errors.New("script resource not found")
	// ErrExecutionFailed matches errors for scripts that exited non-zero.
	ErrExecutionFailed = errors.New("script execution failed")
)

// NotFoundError reports a script or dependency the loader does not have.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrResourceNotFound, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrResourceNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// ExecError reports a non-zero exit. ExitCode is -1 when the process was
// terminated by a signal.
type ExecError struct {
	Script   string
	ExitCode int
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s failed with exit code: %d", e.Script, e.ExitCode)
}

func (e *ExecError) Is(target error) bool { return target == ErrExecutionFailed }

// ExitCode extracts the exit code carried by err, if any.
func ExitCode(err error) (int, bool) {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr.ExitCode, true
	}
	return 0, false
}
