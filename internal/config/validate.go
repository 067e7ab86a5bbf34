package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/wordclass/internal/adapter/provider/llm"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be > 0 (got %d)", c.Server.RateLimit)
	}

	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if c.Store.BackendName() != BackendMemory && strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required for the %s backend", c.Store.BackendName())
	}

	switch c.Store.BackendName() {
	case BackendSQLite:
		if strings.TrimSpace(c.SQLite.Path) == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite backend")
		}
	case BackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
		if c.Redis.MaxDocumentBytes < 0 {
			return fmt.Errorf("redis.max_document_bytes must be >= 0 (got %d)", c.Redis.MaxDocumentBytes)
		}
	}

	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}

	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	return nil
}

func (s StoreConfig) validate() error {
	switch s.BackendName() {
	case BackendPostgres, BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("backend must be one of postgres, sqlite, redis, memory (got %q)", s.Backend)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", s.Timeout)
	}
	return nil
}

func (s SRSConfig) validate() error {
	if s.LearnedThreshold < 1 {
		return fmt.Errorf("learned_threshold must be >= 1 (got %d)", s.LearnedThreshold)
	}
	if s.IncorrectDelay <= 0 {
		return fmt.Errorf("incorrect_delay must be > 0 (got %v)", s.IncorrectDelay)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	return nil
}

func (l LLMConfig) validate() error {
	if l.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", l.MaxTokens)
	}
	return l.ProviderConfig().Validate()
}

// ProviderConfig returns the provider factory settings.
func (l LLMConfig) ProviderConfig() llm.Config {
	return llm.Config{
		Provider: strings.ToLower(strings.TrimSpace(l.Provider)),
		Model:    l.Model,
		APIKey:   l.APIKey,
		BaseURL:  l.BaseURL,
		Timeout:  l.Timeout,
	}
}
