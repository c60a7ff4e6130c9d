package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"skuntir.com/BuildScripts/internal/progress"
	"skuntir.com/BuildScripts/internal/resource"
)

const stagingPattern = "buildscripts-*"

// drainGrace bounds how long output is still read after a cancelled script
// exits, in case a background child keeps the pipe open.
const drainGrace = 2 * time.Second

// Runner executes bundled scripts. A Runner holds no per-run state and may be
// shared between goroutines.
type Runner struct {
	loader            resource.Loader
	logger            Logger
	strictPermissions bool
}

type Option func(*Runner)

// WithStrictPermissions makes a failed chmod fatal instead of a warning.
func WithStrictPermissions(strict bool) Option {
	return func(r *Runner) { r.strictPermissions = strict }
}

func New(loader resource.Loader, logger Logger, opts ...Option) *Runner {
	r := &Runner{loader: loader, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run stages s under dir and executes it with options as arguments, using dir
// as the working directory. Every output line is passed to the logger before
// Run returns. The staging directory is removed on every path.
func (r *Runner) Run(ctx context.Context, dir string, s Script, options ...string) (err error) {
	if s.FileName == "" {
		return errors.New("script file name is empty")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve directory %q: %w", dir, err)
	}

	stagingDir, err := os.MkdirTemp(absDir, stagingPattern)
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(stagingDir); rmErr != nil && err == nil {
			err = fmt.Errorf("remove staging directory: %w", rmErr)
		}
	}()

	var entry string
	for _, name := range s.Files() {
		entry, err = r.stage(ctx, stagingDir, name)
		if err != nil {
			return err
		}
	}

	exitCode, err := r.execute(ctx, absDir, entry, options)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		execErr := &ExecError{Script: s.FileName, ExitCode: exitCode}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ctxErr, execErr)
		}
		return execErr
	}
	return nil
}

// stage copies the named resource into dir and marks it executable.
func (r *Runner) stage(ctx context.Context, dir, name string) (string, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("script name %q must be a local relative path", name)
	}

	rc, err := r.loader.Load(name)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return "", &NotFoundError{Name: name, Err: err}
		}
		return "", fmt.Errorf("load %s: %w", name, err)
	}
	defer rc.Close()

	dst := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", name, err)
	}
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	if err := r.makeExecutable(ctx, dir, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (r *Runner) makeExecutable(ctx context.Context, dir, path string) error {
	cmd := exec.CommandContext(ctx, "chmod", "+x", path)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if r.strictPermissions {
		return fmt.Errorf("chmod +x %s: %w", filepath.Base(path), err)
	}
	r.logger.Warn("chmod failed", "file", filepath.Base(path), "err", err, "output", strings.TrimSpace(string(out)))
	return nil
}

// execute runs entry with stdout and stderr merged into one pipe that a
// separate goroutine drains into the logger. It returns only after the
// process has exited and the pipe has been read to the end.
func (r *Runner) execute(ctx context.Context, dir, entry string, options []string) (int, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return 0, fmt.Errorf("create output pipe: %w", err)
	}
	defer pr.Close()

	cmd, err := start(ctx, dir, pw, entry, options)
	if err != nil {
		_ = pw.Close()
		return 0, fmt.Errorf("start %s: %w", filepath.Base(entry), err)
	}
	// The child holds its own copy; closing ours lets the reader see EOF.
	_ = pw.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.drain(pr)
	}()

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		_ = pr.SetReadDeadline(time.Now().Add(drainGrace))
	}
	wg.Wait()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("wait for %s: %w", filepath.Base(entry), waitErr)
	}
	return 0, nil
}

// start launches entry. A freshly written file can briefly report ETXTBSY
// while a concurrent fork still holds its descriptor, so that is retried.
func start(ctx context.Context, dir string, out *os.File, entry string, options []string) (*exec.Cmd, error) {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		cmd := command(ctx, dir, out, entry, options...)
		err = cmd.Start()
		if errors.Is(err, syscall.ENOEXEC) {
			// No interpreter line: run it the way a POSIX shell would.
			cmd = command(ctx, dir, out, "/bin/sh", append([]string{entry}, options...)...)
			err = cmd.Start()
		}
		if !errors.Is(err, syscall.ETXTBSY) {
			return cmd, err
		}
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	return nil, err
}

func command(ctx context.Context, dir string, out *os.File, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd
}

func (r *Runner) drain(rd io.Reader) {
	lw := progress.NewLineWriter(func(line string) { r.logger.Info(line) })
	if _, err := io.Copy(lw, rd); err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		r.logger.Warn("read script output", "err", err)
	}
	lw.Flush()
}
