package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"skuntir.com/BuildScripts/internal/cli"
	"skuntir.com/BuildScripts/internal/config"
	"skuntir.com/BuildScripts/internal/log"
	"skuntir.com/BuildScripts/internal/progress"
	"skuntir.com/BuildScripts/internal/resource"
	"skuntir.com/BuildScripts/internal/runner"
	"skuntir.com/BuildScripts/internal/script"
	"skuntir.com/BuildScripts/internal/task"
)

// app holds the state of one command-line invocation.
type app struct {
	bundle *resource.FSLoader
	stdout io.Writer
	stderr io.Writer

	projectDir        string
	configPath        string
	logLevel          string
	logFormat         string
	strictPermissions bool
	outputFile        string

	env task.Env
	reg *task.Registry
}

func newApp(bundle *resource.FSLoader, stdout, stderr io.Writer) *app {
	return &app{bundle: bundle, stdout: stdout, stderr: stderr}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "BuildScripts",
		Short:         "Run the bundled release-engineering scripts against a project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.projectDir, "project-dir", "", "project directory the scripts run in (default: working directory)")
	pf.StringVar(&a.configPath, "config", "", "path to config yaml (default: <project-dir>/"+config.FileName+")")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	pf.StringVar(&a.logFormat, "log-format", "", "auto, text or json (overrides config)")
	pf.BoolVar(&a.strictPermissions, "strict-permissions", false, "fail when a staged script cannot be made executable")

	for _, t := range task.Builtin(nil) {
		root.AddCommand(a.taskCmd(t.Name(), t.Description()))
	}
	root.AddCommand(a.runCmd(), a.listCmd(), a.scriptsCmd(), a.initCmd())
	return root
}

// prepare loads the config and builds the logger, the script runner and the
// task registry. Commands that run tasks call it first.
func (a *app) prepare(cmd *cobra.Command) error {
	dir, err := cli.ResolveProjectDir(a.projectDir)
	if err != nil {
		return err
	}
	o := cli.Overrides{
		LogLevel:         a.logLevel,
		LogFormat:        a.logFormat,
		ReleaseNotesFile: a.outputFile,
	}
	if cmd.Flags().Changed("strict-permissions") {
		o.StrictPermissions = &a.strictPermissions
	}
	cfg, err := cli.LoadConfig(a.configPath, dir, o)
	if err != nil {
		return err
	}

	log.Setup(cfg.LogLevel, cfg.LogFormat, a.stderr)

	sr := script.New(a.bundle, log.WithComponent("script"), script.WithStrictPermissions(cfg.StrictPermissions))
	a.reg = task.NewBuiltinRegistry(sr)
	if err := a.reg.Check(cfg.TaskNames()); err != nil {
		return fmt.Errorf("invalid config: tasks: %w", err)
	}
	a.env = task.Env{ProjectDir: dir, Config: cfg, Stdout: a.stdout}
	log.Debug("config loaded", "project_dir", dir, "strict_permissions", cfg.StrictPermissions)
	return nil
}

func (a *app) taskCmd(name, description string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(cmd); err != nil {
				return err
			}
			return a.runTasks(cmd, []string{name})
		},
	}
	if name == task.GenerateReleaseNotes {
		cmd.Flags().StringVarP(&a.outputFile, "output", "o", "", "keep the release notes in this file (overrides config)")
	}
	return cmd
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <task>...",
		Short: "Run several tasks in order, stopping at the first failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.prepare(cmd); err != nil {
				return err
			}
			return a.runTasks(cmd, args)
		},
	}
}

func (a *app) runTasks(cmd *cobra.Command, names []string) error {
	results, err := runner.New(a.reg, a.env).Run(cmd.Context(), names)
	if len(results) > 1 {
		s := progress.NewSummary(a.stdout, "run")
		runner.Summarize(s, results)
		s.Print()
	}
	if err == nil {
		return nil
	}
	if results == nil {
		// Nothing ran: the names were unknown or disabled.
		return err
	}
	return &exitError{code: exitFailure, err: fmt.Errorf("run failed: %w", err)}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(cmd); err != nil {
				return err
			}
			width := 0
			if w, ok := progress.TermWidth(a.stdout); ok {
				width = w
			}
			printTaskList(a.stdout, a.reg.Tasks(), a.env.Config, width)
			return nil
		},
	}
}

func printTaskList(w io.Writer, tasks []task.Task, cfg config.Config, width int) {
	nameCol := 0
	for _, t := range tasks {
		nameCol = max(nameCol, len(t.Name()))
	}
	indent := strings.Repeat(" ", nameCol+2)
	for _, t := range tasks {
		desc := t.Description()
		if !cfg.TaskEnabled(t.Name()) {
			desc += " (disabled)"
		}
		lines := wrapWords(desc, width-len(indent))
		fmt.Fprintf(w, "%-*s  %s\n", nameCol, t.Name(), lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(w, "%s%s\n", indent, l)
		}
	}
}

// wrapWords splits s into lines of at most width runes. A width below 20
// disables wrapping.
func wrapWords(s string, width int) []string {
	if width < 20 {
		return []string{s}
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(word)) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 || len(lines) == 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func (a *app) scriptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List the bundled scripts with their size and BLAKE3 digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := a.bundle.List()
			if err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			for _, name := range names {
				info, err := a.bundle.Describe(name)
				if err != nil {
					return &exitError{code: exitFailure, err: err}
				}
				fmt.Fprintf(a.stdout, "%-40s %7d  %s\n", info.Name, info.Size, info.Digest)
			}
			return nil
		},
	}
}

func (a *app) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default " + config.FileName + " into the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cli.ResolveProjectDir(a.projectDir)
			if err != nil {
				return err
			}
			path, _ := cli.ResolveConfigPath(a.configPath, dir)
			if err := config.WriteDefault(path, force); err != nil {
				return fmt.Errorf("write default config: %w", err)
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
