package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when the LLM provider credentials are absent.
// Callers should surface this as a configuration problem, not a request problem.
var ErrMissingAPIKey = errors.New("llm api_key is not configured")

// Config holds the application configuration
type Config struct {
	LLM         LLMConfig
	Server      ServerConfig
	Assistant   AssistantConfig
	ImageSearch ImageSearchConfig `mapstructure:"image_search"`
	Store       StoreConfig
	Log         LogConfig
}

// LLMConfig holds the LLM provider configuration
type LLMConfig struct {
	Provider       string `mapstructure:"provider"`
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ServerConfig holds the embedding HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// AssistantConfig identifies the well-known assistant entity. Injected via
// configuration rather than hard-coded so deployments can rename the assistant.
type AssistantConfig struct {
	ID          string `mapstructure:"id"`
	DisplayName string `mapstructure:"display_name"`
}

// ImageSearchConfig holds the header-image search provider configuration
type ImageSearchConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// StoreConfig holds the workspace database configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads the configuration from config.yaml, or from the file named by
// the CONFIG_PATH environment variable when set.
func Load() (*Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("assistant.id", "assistant")
	viper.SetDefault("assistant.display_name", "Assistant")
	viper.SetDefault("llm.timeout_seconds", 60)
	viper.SetDefault("store.path", filepath.Join(".", "workspace.db"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.LLM.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &config, nil
}
