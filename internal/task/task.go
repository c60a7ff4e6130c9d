// Package task defines the named build tasks and the registry the CLI serves
// them from.
package task

import (
	"context"
	"io"

	"skuntir.com/BuildScripts/internal/config"
	"skuntir.com/BuildScripts/internal/script"
)

// Env carries what a task needs from the invocation.
type Env struct {
	ProjectDir string
	Config     config.Config
	Stdout     io.Writer
}

type Task interface {
	Name() string
	Description() string
	Run(ctx context.Context, env Env) error
}

// ScriptRunner executes a bundled script from dir. *script.Runner satisfies it.
type ScriptRunner interface {
	Run(ctx context.Context, dir string, s script.Script, options ...string) error
}
