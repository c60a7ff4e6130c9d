package task

import (
	"context"

	"skuntir.com/BuildScripts/internal/log"
	"skuntir.com/BuildScripts/internal/script"
)

// ScriptTask runs one bundled script with a fixed argument list.
type ScriptTask struct {
	name        string
	description string
	script      script.Script
	options     []string
	runner      ScriptRunner
}

func NewScriptTask(name, description string, s script.Script, runner ScriptRunner, options ...string) *ScriptTask {
	return &ScriptTask{
		name:        name,
		description: description,
		script:      s,
		options:     options,
		runner:      runner,
	}
}

func (t *ScriptTask) Name() string { return t.name }

func (t *ScriptTask) Description() string { return t.description }

func (t *ScriptTask) Script() script.Script { return t.script }

func (t *ScriptTask) Run(ctx context.Context, env Env) error {
	log.WithTask(t.name).Debug("running script", "script", t.script.FileName, "dir", env.ProjectDir)
	return t.runner.Run(ctx, env.ProjectDir, t.script, t.options...)
}
