// Package config holds palctl's configuration. Values come from built-in
// defaults, then an optional TOML file, then PALCTL_* environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/walteh/palio/pkg/pal"
)

// EnvPrefix is the prefix of environment overrides, e.g. PALCTL_LOG_LEVEL.
const EnvPrefix = "palctl"

// Config is palctl's configuration.
type Config struct {
	// LogLevel is any logrus level name.
	LogLevel string `toml:"log_level" envconfig:"LOG_LEVEL"`

	// LogFormat is "text" or "json".
	LogFormat string `toml:"log_format" envconfig:"LOG_FORMAT"`

	// Mode is the creation mode passed to open when a file is created.
	Mode uint32 `toml:"mode" envconfig:"MODE"`

	// DefaultFlags is used by "open" when no flags are given.
	DefaultFlags string `toml:"default_flags" envconfig:"DEFAULT_FLAGS"`

	// Hold is how long "lock" holds a lock before releasing it.
	Hold time.Duration `toml:"hold" envconfig:"HOLD"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Mode:         0o644,
		DefaultFlags: "rdonly|cloexec",
		Hold:         0,
	}
}

// Load builds a Config from the defaults, the TOML file at path (skipped if
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, c)
		if err != nil {
			return nil, errors.Wrapf(err, "reading config %q", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, errors.Errorf("config %q: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("log_format: unknown format %q, want text or json", c.LogFormat)
	}
	if c.Mode&^0o7777 != 0 {
		return errors.Errorf("mode: %#o has bits outside 07777", c.Mode)
	}
	flags, err := pal.ParseOpenFlags(c.DefaultFlags)
	if err != nil {
		return errors.Wrap(err, "default_flags")
	}
	if !flags.AccessMode().Valid() {
		return errors.Errorf("default_flags: invalid access mode in %q", c.DefaultFlags)
	}
	if c.Hold < 0 {
		return errors.Errorf("hold: negative duration %v", c.Hold)
	}
	return nil
}

// ApplyLogging configures the standard logrus logger from c.
func (c *Config) ApplyLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
}
