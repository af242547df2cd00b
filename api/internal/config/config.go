package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName  string
	ToolName string
	Host     string
	Port     string
	LogLevel string

	Provider     string
	ProxyURL     string
	ProxyKey     string
	Model        string
	MaxTokens    int
	LLMTimeout   time.Duration
	GeminiAPIKey string
	GeminiModel  string

	MaxUploadBytes int64

	DatabaseURL string

	TelegramBotToken string
	WebhookURL       string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Design Tutor")
	v.SetDefault("TOOL_NAME", "design-tutor")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8000")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("LLM_PROVIDER", "proxy")
	v.SetDefault("LLM_PROXY_URL", "https://llm-proxy.densematrix.ai")
	v.SetDefault("LLM_PROXY_KEY", "")
	v.SetDefault("LLM_MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("LLM_MAX_TOKENS", 4096)
	v.SetDefault("LLM_TIMEOUT", "120s")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")

	v.SetDefault("MAX_UPLOAD_BYTES", 10*1024*1024) // 10MB

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("WEBHOOK_URL", "")
}

// Load reads configuration from defaults, an optional .env file, an optional
// YAML file named by CONFIG_FILE and the process environment (highest).
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	timeout, err := parseTimeout(v.GetString("LLM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("LLM_TIMEOUT: %w", err)
	}

	cfg := &Config{
		AppName:  v.GetString("APP_NAME"),
		ToolName: v.GetString("TOOL_NAME"),
		Host:     v.GetString("HOST"),
		Port:     v.GetString("PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),

		Provider:     strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		ProxyURL:     strings.TrimRight(v.GetString("LLM_PROXY_URL"), "/"),
		ProxyKey:     v.GetString("LLM_PROXY_KEY"),
		Model:        v.GetString("LLM_MODEL"),
		MaxTokens:    v.GetInt("LLM_MAX_TOKENS"),
		LLMTimeout:   timeout,
		GeminiAPIKey: strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiModel:  strings.TrimSpace(v.GetString("GEMINI_MODEL")),

		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),

		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),

		TelegramBotToken: strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		WebhookURL:       strings.TrimSpace(v.GetString("WEBHOOK_URL")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case "proxy", "openai", "gpt", "gemini":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q; use proxy or gemini", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return errors.New("LLM_MAX_TOKENS must be positive")
	}
	if c.LLMTimeout < time.Second {
		return fmt.Errorf("LLM_TIMEOUT must be at least 1s, got %v", c.LLMTimeout)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT is empty")
	}
	return nil
}

// parseTimeout accepts Go durations ("90s", "2m") and bare integers as seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
