package task

import (
	"context"
	"fmt"

	"skuntir.com/BuildScripts/internal/log"
	"skuntir.com/BuildScripts/internal/output"
	"skuntir.com/BuildScripts/internal/script"
)

// ReleaseNotesTask generates release notes from the git history and prints
// them. With release_notes.output_file_name set the notes are also kept in
// that file; otherwise a temporary file is used and removed afterwards.
type ReleaseNotesTask struct {
	runner ScriptRunner
}

func NewReleaseNotesTask(runner ScriptRunner) *ReleaseNotesTask {
	return &ReleaseNotesTask{runner: runner}
}

func (t *ReleaseNotesTask) Name() string { return GenerateReleaseNotes }

func (t *ReleaseNotesTask) Description() string {
	return "Generate release notes from the commit messages since the last tag"
}

func (t *ReleaseNotesTask) Script() script.Script { return releaseNotesScript }

func (t *ReleaseNotesTask) Run(ctx context.Context, env Env) (err error) {
	file := output.ResolveReleaseNotesFile(env.ProjectDir, env.Config.ReleaseNotes.OutputFileName)
	defer func() {
		if cErr := file.Cleanup(); cErr != nil {
			log.WithTask(t.Name()).Warn("release notes cleanup failed", "file", file.Path(), "err", cErr)
		}
	}()

	if err := t.runner.Run(ctx, env.ProjectDir, releaseNotesScript, "-o", file.Name); err != nil {
		return err
	}
	if err := file.PrintTo(env.Stdout); err != nil {
		return fmt.Errorf("%s: %w", t.Name(), err)
	}
	return nil
}
