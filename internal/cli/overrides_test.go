package cli

import (
	"os"
	"path/filepath"
	"testing"

	"skuntir.com/BuildScripts/internal/config"
)

func boolPtr(v bool) *bool { return &v }

func TestResolveProjectDir(t *testing.T) {
	tmp := t.TempDir()

	got, err := ResolveProjectDir(tmp)
	if err != nil {
		t.Fatalf("ResolveProjectDir() error = %v", err)
	}
	if got != tmp {
		t.Fatalf("expected %q, got %q", tmp, got)
	}

	t.Chdir(tmp)
	got, err = ResolveProjectDir("")
	if err != nil {
		t.Fatalf("ResolveProjectDir(\"\") error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(tmp)
	gotReal, _ := filepath.EvalSymlinks(got)
	if gotReal != want {
		t.Fatalf("expected working directory %q, got %q", want, gotReal)
	}

	file := filepath.Join(tmp, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed write error: %v", err)
	}
	if _, err := ResolveProjectDir(file); err == nil {
		t.Fatalf("expected error for a regular file")
	}
	if _, err := ResolveProjectDir(filepath.Join(tmp, "missing")); err == nil {
		t.Fatalf("expected error for a missing directory")
	}
}

func TestResolveConfigPath(t *testing.T) {
	path, explicit := ResolveConfigPath("", "/work/app")
	if explicit || path != filepath.Join("/work/app", config.FileName) {
		t.Fatalf("unexpected implicit path %q (explicit=%v)", path, explicit)
	}

	path, explicit = ResolveConfigPath("/etc/bs.yaml", "/work/app")
	if !explicit || path != "/etc/bs.yaml" {
		t.Fatalf("unexpected explicit path %q (explicit=%v)", path, explicit)
	}
}

func TestLoadConfig_MissingImplicitFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("", t.TempDir(), Overrides{})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "auto" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir(), Overrides{})
	if err == nil {
		t.Fatalf("expected error for a missing explicit config")
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	body := "log_level: warn\nlog_format: text\nrelease_notes:\n  output_file_name: file.txt\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("seed write error: %v", err)
	}
	t.Setenv("BUILDSCRIPTS_LOG_LEVEL", "error")
	t.Setenv("BUILDSCRIPTS_RELEASE_NOTES_OUTPUT_FILE_NAME", "env.txt")

	cfg, err := LoadConfig("", dir, Overrides{LogLevel: "debug", StrictPermissions: boolPtr(true)})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("flag should win over env and file, got %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("file value should survive, got %q", cfg.LogFormat)
	}
	if cfg.ReleaseNotes.OutputFileName != "env.txt" {
		t.Errorf("env should win over file, got %q", cfg.ReleaseNotes.OutputFileName)
	}
	if !cfg.StrictPermissions {
		t.Errorf("expected strict permissions from flag")
	}
}

func TestLoadConfig_InvalidAfterOverrides(t *testing.T) {
	_, err := LoadConfig("", t.TempDir(), Overrides{LogFormat: "xml"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}
