package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"skuntir.com/BuildScripts/internal/config"
)

// Overrides holds command-line values that take precedence over the config
// file and the environment. Empty fields leave the config untouched.
type Overrides struct {
	LogLevel          string
	LogFormat         string
	StrictPermissions *bool
	ReleaseNotesFile  string
}

// ResolveProjectDir returns the absolute project directory: dirFlag when set,
// the working directory otherwise.
func ResolveProjectDir(dirFlag string) (string, error) {
	dir := dirFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", abs)
	}
	return abs, nil
}

// ResolveConfigPath returns the config file to read and whether the user
// named it explicitly.
func ResolveConfigPath(configFlag, projectDir string) (string, bool) {
	if configFlag != "" {
		if filepath.IsAbs(configFlag) {
			return configFlag, true
		}
		if abs, err := filepath.Abs(configFlag); err == nil {
			return abs, true
		}
		return configFlag, true
	}
	return filepath.Join(projectDir, config.FileName), false
}

// LoadConfig reads the config file, applies environment and flag overrides
// and validates the result. A missing implicit config file yields defaults;
// a missing explicit one is an error.
func LoadConfig(configFlag, projectDir string, o Overrides) (config.Config, error) {
	path, explicit := ResolveConfigPath(configFlag, projectDir)
	cfg, err := config.LoadYAML(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
		cfg = config.Defaults()
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return config.Config{}, err
	}
	ApplyOverrides(&cfg, o)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func ApplyOverrides(cfg *config.Config, o Overrides) {
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	if o.StrictPermissions != nil {
		cfg.StrictPermissions = *o.StrictPermissions
	}
	if o.ReleaseNotesFile != "" {
		cfg.ReleaseNotes.OutputFileName = o.ReleaseNotesFile
	}
}
