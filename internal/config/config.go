package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project directory.
const FileName = "buildscripts.yaml"

//go:embed default.yaml
var defaultYAML []byte

type ReleaseNotesConfig struct {
	OutputFileName string `yaml:"output_file_name"`
}

type Config struct {
	LogLevel          string             `yaml:"log_level"`
	LogFormat         string             `yaml:"log_format"`
	StrictPermissions bool               `yaml:"strict_permissions"`
	ReleaseNotes      ReleaseNotesConfig `yaml:"release_notes"`
	Tasks             map[string]bool    `yaml:"tasks,omitempty"`
}

func Defaults() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "auto",
	}
}

// LoadYAML reads path on top of Defaults.
func LoadYAML(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultYAML returns the commented default config document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// WriteDefault writes the default config to path. An existing file is kept
// unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, defaultYAML, 0o644)
}

func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "":
		c.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "":
		c.LogFormat = "auto"
	case "auto", "text", "json":
	default:
		return fmt.Errorf("log_format %q must be one of auto, text, json", c.LogFormat)
	}

	out := expandUserPath(strings.TrimSpace(c.ReleaseNotes.OutputFileName))
	if out != "" && !filepath.IsLocal(out) {
		return fmt.Errorf("release_notes.output_file_name %q must be a path inside the project directory", out)
	}
	c.ReleaseNotes.OutputFileName = out

	for name := range c.Tasks {
		if strings.TrimSpace(name) == "" {
			return errors.New("tasks: empty task name")
		}
	}
	return nil
}

// TaskEnabled reports whether name is switched on. Tasks not listed are on.
func (c *Config) TaskEnabled(name string) bool {
	enabled, ok := c.Tasks[name]
	return !ok || enabled
}

// TaskNames returns the task names the config mentions.
func (c *Config) TaskNames() []string {
	out := make([]string, 0, len(c.Tasks))
	for name := range c.Tasks {
		out = append(out, name)
	}
	return out
}

func expandUserPath(p string) string {
	if p == "" {
		return ""
	}
	p = expandEnvKeepUnknown(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return p
		}
		if p == "~" {
			return home
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

func expandEnvKeepUnknown(s string) string {
	return os.Expand(s, func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if key == "HOME" || key == "USERPROFILE" {
			home, err := os.UserHomeDir()
			if err == nil && home != "" {
				return home
			}
		}
		return "$" + key
	})
}
