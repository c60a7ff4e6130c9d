package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skuntir.com/BuildScripts/internal/config"
	"skuntir.com/BuildScripts/internal/resource"
)

func testBundle() *resource.FSLoader {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s), Mode: 0o644} }
	return resource.NewFSLoader(fstest.MapFS{
		"utils.sh":  file("say() { echo \"$@\"; }\n"),
		"semver.sh": file("\n"),
		"create_release_branch.sh": file("#!/bin/sh\n" +
			". \"$(dirname \"$0\")/utils.sh\"\n" +
			"say branch-created\n"),
		"generate_release_notes.sh": file("#!/bin/sh\n" +
			"while getopts o: opt; do case $opt in o) out=$OPTARG;; esac; done\n" +
			"echo notes-body > \"$out\"\n"),
		"bump_minor_version.sh": file("#!/bin/sh\n" +
			"echo bumping\n" +
			"exit 3\n"),
		"update_translations_phrase_v1.17.1.sh": file("#!/bin/sh\necho phrase-pulled\n"),
		"update_translations_lokalise_v2.sh":    file("#!/bin/sh\necho lokalise\n"),
	})
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, testBundle(), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
}

func TestList(t *testing.T) {
	r := run(t, "list", "--project-dir", t.TempDir())
	require.Equal(t, 0, r.code, r.stderr)
	for _, name := range []string{
		"createReleaseBranch",
		"generateReleaseNotes",
		"bumpMinorVersion",
		"updateTranslationsPhrase",
		"updateTranslationsLokalise",
	} {
		assert.Contains(t, r.stdout, name)
	}
}

func TestList_MarksDisabledTasks(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tasks:\n  updateTranslationsPhrase: false\n")

	r := run(t, "list", "--project-dir", dir)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "(disabled)")
}

func TestWrapWords(t *testing.T) {
	assert.Equal(t, []string{"one two three"}, wrapWords("one two three", 0))
	lines := wrapWords("aaaa bbbb cccc dddd eeee ffff gggg", 20)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 20)
	}
	assert.Equal(t, "aaaa bbbb cccc dddd eeee ffff gggg", strings.Join(lines, " "))
}

func TestTaskCommand_LogsScriptOutput(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	r := run(t, "createReleaseBranch", "--project-dir", dir, "--log-format", "text")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "branch-created")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging directory must be removed")
}

func TestTaskCommand_FailureExitsOne(t *testing.T) {
	skipOnWindows(t)
	r := run(t, "bumpMinorVersion", "--project-dir", t.TempDir())
	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stderr, "run failed")
	assert.Contains(t, r.stderr, "exit code: 3")
}

func TestGenerateReleaseNotes_TemporaryFile(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	r := run(t, "generateReleaseNotes", "--project-dir", dir)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "notes-body\n\n", r.stdout)

	matches, err := filepath.Glob(filepath.Join(dir, "*-release-notes.txt"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestGenerateReleaseNotes_OutputFlagKeepsFile(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	r := run(t, "generateReleaseNotes", "--project-dir", dir, "-o", "notes.txt")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "notes-body")

	b, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "notes-body\n", string(b))
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	skipOnWindows(t)
	r := run(t, "run", "createReleaseBranch", "bumpMinorVersion", "updateTranslationsPhrase",
		"--project-dir", t.TempDir(), "--log-format", "text")

	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stderr, "branch-created")
	assert.NotContains(t, r.stderr, "phrase-pulled")
	assert.Contains(t, r.stdout, "createReleaseBranch")
	assert.Contains(t, r.stdout, "success")
	assert.Contains(t, r.stdout, "fail")
	assert.Contains(t, r.stdout, "skipped")
}

func TestRun_UnknownTaskSuggests(t *testing.T) {
	r := run(t, "run", "createReleaseBrnch", "--project-dir", t.TempDir())
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, `did you mean "createReleaseBranch"?`)
}

func TestRun_DisabledTask(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tasks:\n  createReleaseBranch: false\n")

	r := run(t, "createReleaseBranch", "--project-dir", dir)
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, "disabled")
}

func TestConfig_UnknownTaskName(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tasks:\n  bumpMinorVersoin: true\n")

	r := run(t, "list", "--project-dir", dir)
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, `did you mean "bumpMinorVersion"?`)
}

func TestConfig_InvalidLogLevel(t *testing.T) {
	r := run(t, "list", "--project-dir", t.TempDir(), "--log-level", "loud")
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, "log_level")
}

func TestUnexpectedArgument(t *testing.T) {
	r := run(t, "createReleaseBranch", "extra", "--project-dir", t.TempDir())
	assert.Equal(t, exitUsage, r.code)
}

func TestScripts(t *testing.T) {
	r := run(t, "scripts")
	require.Equal(t, 0, r.code, r.stderr)

	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "bump_minor_version.sh"))
	fields := strings.Fields(lines[0])
	require.Len(t, fields, 3)
	assert.Len(t, fields[2], 64)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)

	r := run(t, "init", "--project-dir", dir)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, path+"\n", r.stdout)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultYAML(), b)

	r = run(t, "init", "--project-dir", dir)
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, "already exists")

	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))
	r = run(t, "init", "--project-dir", dir, "--force")
	require.Equal(t, 0, r.code, r.stderr)
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultYAML(), b)
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0o644))
}
