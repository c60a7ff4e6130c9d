package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skuntir.com/BuildScripts/internal/log"
	"skuntir.com/BuildScripts/internal/progress"
	"skuntir.com/BuildScripts/internal/script"
	"skuntir.com/BuildScripts/internal/task"
)

// ErrTaskDisabled is returned for tasks switched off in the config.
var ErrTaskDisabled = errors.New("task disabled in config")

// Result records the outcome of one task.
type Result struct {
	Task     string
	Status   string
	Started  time.Time
	Duration time.Duration
	ExitCode int
	Err      error
}

// Runner executes tasks one after another and stops at the first failure.
type Runner struct {
	reg *task.Registry
	env task.Env
	now func() time.Time
}

func New(reg *task.Registry, env task.Env) *Runner {
	return &Runner{reg: reg, env: env, now: time.Now}
}

// Run resolves every name before running anything, then runs the tasks in
// order. Tasks after a failure are reported as skipped.
func (r *Runner) Run(ctx context.Context, names []string) ([]Result, error) {
	if len(names) == 0 {
		return nil, errors.New("no tasks given")
	}
	tasks := make([]task.Task, 0, len(names))
	for _, name := range names {
		t, err := r.reg.Lookup(name)
		if err != nil {
			return nil, err
		}
		if !r.env.Config.TaskEnabled(name) {
			return nil, fmt.Errorf("%s: %w", name, ErrTaskDisabled)
		}
		tasks = append(tasks, t)
	}

	results := make([]Result, 0, len(tasks))
	var outErr error
	for _, t := range tasks {
		if outErr != nil {
			results = append(results, Result{Task: t.Name(), Status: progress.StatusSkipped})
			continue
		}

		logger := log.WithTask(t.Name())
		logger.Info("task started")
		start := r.now()
		err := t.Run(ctx, r.env)
		dur := r.now().Sub(start)

		res := Result{Task: t.Name(), Status: progress.StatusSuccess, Started: start, Duration: dur}
		if err != nil {
			res.Status = progress.StatusFail
			res.Err = err
			res.ExitCode = 1
			if code, ok := script.ExitCode(err); ok {
				res.ExitCode = code
			}
			logger.Error("task failed", "duration", progress.FormatDuration(dur), "err", err)
			outErr = fmt.Errorf("%s: %w", t.Name(), err)
		} else {
			logger.Info("task finished", "duration", progress.FormatDuration(dur))
		}
		results = append(results, res)
	}
	return results, outErr
}

// Summarize renders results as a table on s.
func Summarize(s *progress.Summary, results []Result) {
	for _, res := range results {
		s.Add(res.Task, res.Status, res.Started, res.Duration, res.ExitCode)
	}
}
