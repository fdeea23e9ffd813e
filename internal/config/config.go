package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port       int    `env:"PORT" envDefault:"5001"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"` // permissive by default; tighten per deployment

	// LLM backend
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"ollama"` // "ollama" (local inference) or "openai" (hosted API)
	OllamaURL   string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	Model       string `env:"MODEL" envDefault:"llama3.2:1b"`
	LLMTimeout  int    `env:"LLM_TIMEOUT" envDefault:"120"` // seconds; local generation can be slow

	// Summary cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"noop"` // "noop" (disabled) or "redis"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"300"` // seconds
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
