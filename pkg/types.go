package pkg

// Shared configuration leaf types consumed across internal packages.

// ----------------------------------------------------
// ================ Model ================
// ModelConfig holds the language-model parameters. All values are opaque
// pass-through for the selected provider.
type ModelConfig struct {
	Provider         string  `yaml:"provider"` // openai, ollama
	Model            string  `yaml:"model"`
	BaseURL          string  `yaml:"base_url"`
	Temperature      float64 `yaml:"temperature"`
	MaxTokens        int     `yaml:"max_tokens"`
	TopP             float64 `yaml:"top_p"`
	FrequencyPenalty float64 `yaml:"frequency_penalty"`
	PresencePenalty  float64 `yaml:"presence_penalty"`
	// BestOf is accepted for compatibility with the completion-era settings
	// file; the chat API has no equivalent and it is not forwarded.
	BestOf int `yaml:"best_of"`
}

// ----------------------------------------------------
// ================ Prompt ================
// PromptConfig carries the base instruction template for persona prompts.
type PromptConfig struct {
	Template string `yaml:"template"`
}

// ----------------------------------------------------
// ================ Memory ================
// MemoryConfig bounds the summary-buffer conversation memory.
type MemoryConfig struct {
	MaxTokenLimit int `yaml:"max_token_limit"`
}

// ----------------------------------------------------
// ================ Retry ================
// RetryConfig bounds the resilience wrapper around outward calls.
type RetryConfig struct {
	Attempts     int `yaml:"attempts"`
	DelaySeconds int `yaml:"delay_seconds"`
}

// ----------------------------------------------------
// ================ History / snapshots ================
// HistoryConfig locates the append-only chat history store.
type HistoryConfig struct {
	Dir string `yaml:"dir"`
}

// SnapshotConfig controls the periodic conversation snapshot task.
type SnapshotConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// ----------------------------------------------------
// ================ Logging ================
// LogConfig configures the global zerolog logger.
type LogConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // json or console
	Output     string `yaml:"output"`      // stdout, stderr, file
	TimeFormat string `yaml:"time_format"` // rfc3339, unix, iso8601
	FilePath   string `yaml:"file_path"`
}
