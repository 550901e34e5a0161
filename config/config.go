// Package config loads and validates runtime configuration from an optional
// config.yaml plus INGEN_-prefixed environment variables, with sensible
// defaults for local development.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the application configuration tree.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Storage StorageConfig `mapstructure:"storage"`
	History HistoryConfig `mapstructure:"history"`
	Model   ModelConfig   `mapstructure:"model"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// EngineConfig tunes dispatch, streaming and context assembly.
type EngineConfig struct {
	ChunkSize        int `mapstructure:"chunk_size" validate:"min=1"`
	MemoryMaxWords   int `mapstructure:"memory_max_words" validate:"min=1"`
	HistoryWindow    int `mapstructure:"history_window" validate:"min=1"`
	HistoryCharLimit int `mapstructure:"history_char_limit" validate:"min=1"`
	MaxTokenCount    int `mapstructure:"max_token_count" validate:"min=1"`
}

// StorageConfig selects the file storage backend for memory context files.
type StorageConfig struct {
	Backend     string `mapstructure:"backend" validate:"oneof=memory local redis blob"`
	LocalPath   string `mapstructure:"local_path" validate:"required_if=Backend local"`
	RedisAddr   string `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB     int    `mapstructure:"redis_db" validate:"min=0"`
	BlobBaseURL string `mapstructure:"blob_base_url" validate:"required_if=Backend blob"`
}

// HistoryConfig selects the chat history repository backend.
type HistoryConfig struct {
	Backend    string `mapstructure:"backend" validate:"oneof=memory sqlite"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
}

// ModelConfig selects the chat completion provider for built-in flows.
type ModelConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=mock openai anthropic"`
	Name     string `mapstructure:"name"`
}

// Load reads configuration, layering defaults, an optional config.yaml in
// the working directory, and INGEN_-prefixed environment variables, then
// validates the result.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("INGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("engine.chunk_size", 100)
	v.SetDefault("engine.memory_max_words", 150)
	v.SetDefault("engine.history_window", 10)
	v.SetDefault("engine.history_char_limit", 200)
	v.SetDefault("engine.max_token_count", 4096)

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.local_path", "")
	v.SetDefault("storage.redis_addr", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.blob_base_url", "")

	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.sqlite_path", "")

	v.SetDefault("model.provider", "mock")
	v.SetDefault("model.name", "")
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			ve := verrs[0]
			return fmt.Errorf("invalid config: field %s failed %q validation", ve.Namespace(), ve.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
