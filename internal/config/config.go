// Package config loads settings from an optional file, CHESSLOG_* environment
// variables and built-in defaults
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	History HistoryConfig `mapstructure:"history"`
	Players PlayersConfig `mapstructure:"players"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Display DisplayConfig `mapstructure:"display"`
	Log     LogConfig     `mapstructure:"log"`
}

type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
	Dev  bool   `mapstructure:"dev"`
}

type HistoryConfig struct {
	MaxGames       int           `mapstructure:"max_games" validate:"min=1,max=1000"`
	UndoTimeout    time.Duration `mapstructure:"undo_timeout"`
	DownloadPrefix string        `mapstructure:"download_prefix" validate:"required"`
}

type PlayersConfig struct {
	DefaultWhite string `mapstructure:"default_white" validate:"required"`
	DefaultBlack string `mapstructure:"default_black" validate:"required"`
}

type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
	Dev  bool   `mapstructure:"dev"`
}

type DisplayConfig struct {
	Theme       string `mapstructure:"theme" validate:"oneof=off brown green gray"`
	HistoryFile string `mapstructure:"history_file"`
}

// LogConfig selects logger level, encoding and sinks
type LogConfig struct {
	Level  string        `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string        `mapstructure:"format" validate:"oneof=console json"`
	Output string        `mapstructure:"output" validate:"oneof=stdout stderr file both"`
	File   LogFileConfig `mapstructure:"file"`
}

type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configPath if given, else ./chesslog.{yaml,json,toml} if present
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("chesslog")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CHESSLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration with no file or environment applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always decode
	_ = v.Unmarshal(cfg)
	return cfg
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr is the HTTP listen address
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.path", "chesslog.db")
	v.SetDefault("storage.dev", false)

	v.SetDefault("history.max_games", 20)
	v.SetDefault("history.undo_timeout", "5s")
	v.SetDefault("history.download_prefix", "chesslog_game")

	v.SetDefault("players.default_white", "hippo")
	v.SetDefault("players.default_black", "squirrel")

	v.SetDefault("http.host", "localhost")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.dev", false)

	v.SetDefault("display.theme", "brown")
	v.SetDefault("display.history_file", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "chesslog.log")
	v.SetDefault("log.file.max_size", 10)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.compress", true)
}
