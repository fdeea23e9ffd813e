package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"mail-relay/internal/cache"
	"mail-relay/internal/config"
	"mail-relay/internal/llm"
	"mail-relay/internal/logger"
)

// Deps bundles common runtime dependencies for the relay.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	LLM    llm.Client
	Cache  cache.Cache
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return Deps{
		Config: cfg,
		Log:    log,
		LLM:    llmClient,
		Cache:  c,
	}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "ollama":
		client := llm.NewOllamaClient(cfg.OllamaURL, time.Duration(cfg.LLMTimeout)*time.Second)
		log.Info("using Ollama backend", "url", cfg.OllamaURL, "model", cfg.Model)
		return client, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI backend", "model", cfg.Model)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: ollama, openai)", cfg.LLMProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			// Cache is an optimization; fall back to no-op rather than refusing to start.
			log.Warn("redis unavailable, summary caching disabled", "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis summary cache", "addr", cfg.RedisAddr)
		return c, nil
	case "noop":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: noop, redis)", cfg.CacheProvider)
	}
}
