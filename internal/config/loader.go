package config

import (
	"fmt"
	"os"

	"companion_bot/pkg"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration assembled from config.yaml
// plus environment variables.
type Config struct {
	LLM      pkg.ModelConfig    `yaml:"llm"`
	Prompt   pkg.PromptConfig   `yaml:"prompt"`
	Memory   pkg.MemoryConfig   `yaml:"memory"`
	Retry    pkg.RetryConfig    `yaml:"retry"`
	History  pkg.HistoryConfig  `yaml:"history"`
	Snapshot pkg.SnapshotConfig `yaml:"snapshot"`
	Log      pkg.LogConfig      `yaml:"log"`

	Env Env `yaml:"-"`
}

// Env holds secrets and endpoints taken from the environment only,
// never from the settings file.
type Env struct {
	APIKey   string `envconfig:"OPENAI_API_KEY"`
	RedisURL string `envconfig:"REDIS_URL"`
}

// Load reads configuration from a YAML file and overlays environment values.
func Load(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	if err := envconfig.Process("", &config.Env); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.Memory.MaxTokenLimit <= 0 {
		c.Memory.MaxTokenLimit = 500
	}
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 4
	}
	if c.Retry.DelaySeconds <= 0 {
		c.Retry.DelaySeconds = 1
	}
	if c.History.Dir == "" {
		c.History.Dir = "database/chat_history"
	}
	if c.Snapshot.IntervalSeconds <= 0 {
		c.Snapshot.IntervalSeconds = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
