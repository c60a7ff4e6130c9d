package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"skuntir.com/BuildScripts/internal/resource"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], resource.Bundled(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line args and returns the exit code. Errors that
// carry no code of their own are usage errors.
func execute(ctx context.Context, args []string, bundle *resource.FSLoader, stdout, stderr io.Writer) int {
	root := newRootCmd(newApp(bundle, stdout, stderr))
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}
