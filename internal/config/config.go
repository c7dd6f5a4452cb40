package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config drives backend selection, scanning, and run recording. Every field
// can come from config.yaml, environment variables, or flags layered on top.
type Config struct {
	// Backends is the ordered fallback list; earlier entries are asked first.
	Backends []string `mapstructure:"backends"`
	// Context is free text prepended verbatim to rename and sort prompts.
	Context string `mapstructure:"context"`

	Ollama struct {
		Model   string `mapstructure:"model"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"ollama"`

	OpenAI struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"openai"`

	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`

	Scan struct {
		Roots      []string `mapstructure:"roots"`
		TargetRoot string   `mapstructure:"target_root"`
	} `mapstructure:"scan"`

	History struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"history"`

	DryRun   bool   `mapstructure:"dry_run"`
	LogLevel string `mapstructure:"log_level"`
}

// LoadConfig reads config.yaml from the working directory or ~/.curator,
// layering environment variables on top. A missing file is fine; env vars and
// defaults carry the rest.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".curator"))
	}

	viper.AutomaticEnv()
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("ollama.base_url", "OLLAMA_BASE_URL")

	viper.SetDefault("backends", []string{"ollama"})
	viper.SetDefault("ollama.base_url", "http://localhost:11434")
	viper.SetDefault("log_level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.History.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			config.History.Path = filepath.Join(home, ".curator", "history.db")
		} else {
			config.History.Path = "history.db"
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
