package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BUILDSCRIPTS_LOG_LEVEL.
const EnvPrefix = "BUILDSCRIPTS"

// ApplyEnv overrides c with any BUILDSCRIPTS_* environment variables that are
// set and non-empty.
func ApplyEnv(c *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.IsSet("log_level") {
		c.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("log_format") {
		c.LogFormat = v.GetString("log_format")
	}
	if v.IsSet("strict_permissions") {
		raw := v.GetString("strict_permissions")
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s_STRICT_PERMISSIONS: %q is not a boolean", EnvPrefix, raw)
		}
		c.StrictPermissions = b
	}
	if v.IsSet("release_notes.output_file_name") {
		c.ReleaseNotes.OutputFileName = v.GetString("release_notes.output_file_name")
	}
	return nil
}
