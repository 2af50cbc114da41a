// Package config loads statebind settings from an optional TOML file and
// STATEBIND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "STATEBIND_CONFIG"

// Config holds application configuration.
type Config struct {
	Journal JournalConfig
	Log     LogConfig
	Output  OutputConfig
}

// JournalConfig holds sqlite settings.
type JournalConfig struct {
	Path string
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level string
}

// OutputConfig holds CLI presentation settings.
type OutputConfig struct {
	Format string
}

// Load reads configuration from file and env. Env var overrides use prefix STATEBIND_.
//
// The file is path if non-empty, else $STATEBIND_CONFIG, else
// $HOME/.config/statebind/config.toml. A missing default file is not an
// error; a missing or unreadable explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("journal.path", filepath.Join(home, ".local", "share", "statebind", "journal.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("output.format", "text")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "statebind"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STATEBIND")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LogLevel parses Log.Level ("debug", "info", "warn", "error").
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
