package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port    string
	GinMode string

	// LLMProvider selects the generative backend: "gemini" (default),
	// "openai", or "copilot".
	LLMProvider string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	CopilotModel string

	GitHubToken   string
	WebhookSecret string

	WebhookQueueSize int
	WebhookWorkers   int

	LLMTimeout        time.Duration
	GitHubTimeout     time.Duration
	WebhookJobTimeout time.Duration

	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = "debug"
	}

	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	if provider == "" {
		provider = "gemini"
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-1.5-flash"
	}

	openaiModel := os.Getenv("OPENAI_MODEL")
	if openaiModel == "" {
		openaiModel = "gpt-4o-mini"
	}

	copilotModel := os.Getenv("COPILOT_MODEL")
	if copilotModel == "" {
		copilotModel = "gpt-5-mini"
	}

	webhookQueueSize := 100
	if v := os.Getenv("WEBHOOK_QUEUE_SIZE"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			webhookQueueSize = parsed
		}
	}

	webhookWorkers := 1
	if v := os.Getenv("WEBHOOK_WORKERS"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			webhookWorkers = parsed
		}
	}

	llmTimeout := 30 * time.Second
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			llmTimeout = time.Duration(parsed) * time.Second
		}
	}

	githubTimeout := 30 * time.Second
	if v := os.Getenv("GITHUB_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			githubTimeout = time.Duration(parsed) * time.Second
		}
	}

	webhookJobTimeout := 10 * time.Minute
	if v := os.Getenv("WEBHOOK_JOB_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			webhookJobTimeout = time.Duration(parsed) * time.Second
		}
	}

	return &Config{
		Port:              port,
		GinMode:           ginMode,
		LLMProvider:       provider,
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       geminiModel,
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:       openaiModel,
		CopilotModel:      copilotModel,
		GitHubToken:       os.Getenv("GITHUB_TOKEN"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookQueueSize:  webhookQueueSize,
		WebhookWorkers:    webhookWorkers,
		LLMTimeout:        llmTimeout,
		GitHubTimeout:     githubTimeout,
		WebhookJobTimeout: webhookJobTimeout,
		ShutdownTimeout:   10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Validate reports every missing required setting at once so a
// misconfigured deployment fails with the full list, not one item at a time.
func (c *Config) Validate() error {
	var missing []string

	if c.GitHubToken == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}

	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "copilot":
		// copilot-sdk authenticates through the local CLI session
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (expected gemini, openai, or copilot)", c.LLMProvider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func parsePositiveInt(s string) (int, error) {
	// tiny helper to avoid pulling in extra config libs
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, os.ErrInvalid
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, os.ErrInvalid
	}
	return n, nil
}
