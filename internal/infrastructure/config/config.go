// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Failure modes for plan generation endpoints.
const (
	// FailureModeError surfaces generation failures as HTTP 500 responses.
	FailureModeError = "error"
	// FailureModeFallback serves a static plan when generation fails.
	FailureModeFallback = "fallback"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Qdrant    QdrantConfig    `mapstructure:"qdrant"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RequestTimeout caps a single request end to end. It must exceed the
	// AI router timeout or every slow generation dies here first.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	EnableCORS     bool          `mapstructure:"enable_cors"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
	EnableMetrics  bool          `mapstructure:"enable_metrics"`
}

// AIConfig contains the inference router configuration. The router exposes
// OpenAI-compatible embedding and chat completion endpoints.
type AIConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	APIKey          string `mapstructure:"api_key"`
	EmbeddingModel  string `mapstructure:"embedding_model"`
	CompletionModel string `mapstructure:"completion_model"`
	MaxTokens       int    `mapstructure:"max_tokens"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	MaxAttempts     int    `mapstructure:"max_attempts"`
	// FailureMode selects what a generation failure returns to the client:
	// "error" (500 with details) or "fallback" (static plan, 200).
	FailureMode string `mapstructure:"failure_mode"`
}

// QdrantConfig contains the vector database configuration
type QdrantConfig struct {
	URL        string  `mapstructure:"url"`
	APIKey     string  `mapstructure:"api_key"`
	Collection string  `mapstructure:"collection"`
	TopK       int     `mapstructure:"top_k"`
	MinScore   float64 `mapstructure:"min_score"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enable         bool `mapstructure:"enable"`
	RequestsPerMin int  `mapstructure:"requests_per_min"`
	BurstSize      int  `mapstructure:"burst_size"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/fitforge")
	}

	v.SetEnvPrefix("FITFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults plus environment variables are a complete configuration.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "FitForge")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.request_timeout", "100s")
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.enable_metrics", true)

	// AI router defaults
	v.SetDefault("ai.base_url", "https://router.huggingface.co")
	v.SetDefault("ai.embedding_model", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("ai.completion_model", "deepseek-ai/DeepSeek-V3")
	v.SetDefault("ai.max_tokens", 8000)
	v.SetDefault("ai.timeout_seconds", 90)
	v.SetDefault("ai.max_attempts", 3)
	v.SetDefault("ai.failure_mode", FailureModeError)

	// Qdrant defaults
	v.SetDefault("qdrant.url", "http://localhost:6333")
	v.SetDefault("qdrant.collection", "athlete_health_context")
	v.SetDefault("qdrant.top_k", 2)
	v.SetDefault("qdrant.min_score", 0.0)

	// Rate limit defaults
	v.SetDefault("rate_limit.enable", false)
	v.SetDefault("rate_limit.requests_per_min", 60)
	v.SetDefault("rate_limit.burst_size", 10)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url is required")
	}

	if c.AI.APIKey == "" && c.App.Environment == "production" {
		return fmt.Errorf("ai.api_key is required in production")
	}

	if c.Server.RequestTimeout > 0 && c.Server.RequestTimeout <= c.AITimeout() {
		return fmt.Errorf("server.request_timeout must exceed ai.timeout_seconds")
	}

	switch c.AI.FailureMode {
	case FailureModeError, FailureModeFallback:
	default:
		return fmt.Errorf("ai.failure_mode must be %q or %q", FailureModeError, FailureModeFallback)
	}

	if c.Qdrant.URL == "" {
		return fmt.Errorf("qdrant.url is required")
	}

	if c.Qdrant.TopK < 1 {
		return fmt.Errorf("qdrant.top_k must be at least 1")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// AITimeout returns the router request timeout as a duration.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}
