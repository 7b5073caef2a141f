// Package config loads runtime settings from an optional YAML file and
// INCREMENTAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file searched for in the working directory.
const FileName = "incremental"

// EnvPrefix prefixes every environment override, e.g. INCREMENTAL_SAVE_PATH.
const EnvPrefix = "INCREMENTAL"

// Config is the full set of runtime settings. The tick rate is fixed at
// compile time and deliberately absent.
type Config struct {
	SavePath    string    `mapstructure:"save_path"`
	JournalPath string    `mapstructure:"journal_path"` // Empty disables the journal
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("save_path", "save.json")
	v.SetDefault("journal_path", "data/journal.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "data/incremental.log")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads settings. When path is empty, incremental.yaml in the working
// directory is used if present; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if c.SavePath == "" {
		return errors.New("config: save_path must not be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	return nil
}
