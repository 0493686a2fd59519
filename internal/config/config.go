// Package config provides configuration for the chat server.
package config

import (
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// ModeMock selects the canned LLM client instead of real providers.
const ModeMock = "MOCK"

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int `env:"HTTP_PORT,default=8080"`
	RPCPort  int `env:"RPC_PORT,default=8081"` // 0 disables the JSON-RPC listener

	// Model catalog; empty uses the embedded default list
	ModelsFile string `env:"MODELS_FILE"`

	// Upstream settings
	OpenAIBaseURL      string `env:"OPENAI_BASE_URL,default=https://api.openai.com/v1"`
	AnthropicBaseURL   string `env:"ANTHROPIC_BASE_URL,default=https://api.anthropic.com"`
	AnthropicVersion   string `env:"ANTHROPIC_VERSION,default=2023-06-01"`
	AnthropicMaxTokens int    `env:"ANTHROPIC_MAX_TOKENS,default=1024"`
	SearchBaseURL      string `env:"SEARCH_BASE_URL,default=https://api.duckduckgo.com"`
	Mode               string `env:"CHAT_MODE"`

	// Streaming settings
	StreamBuffer    int           `env:"STREAM_BUFFER,default=32"`
	PingInterval    time.Duration `env:"WS_PING_INTERVAL,default=30s"`
	WriteTimeout    time.Duration `env:"WS_WRITE_TIMEOUT,default=10s"`
	ReadTimeout     time.Duration `env:"WS_READ_TIMEOUT,default=60s"`
	MaxMessageSize  int64         `env:"WS_MAX_MESSAGE_SIZE,default=65536"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, errors.Wrap(err, "decode environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MockMode reports whether upstream providers are replaced by the mock client.
func (c *Config) MockMode() bool {
	return c.Mode == ModeMock
}

func (c *Config) validate() error {
	if c.HTTPPort <= 0 {
		return errors.Errorf("HTTP_PORT must be positive, got %d", c.HTTPPort)
	}
	if c.RPCPort < 0 {
		return errors.Errorf("RPC_PORT must not be negative, got %d", c.RPCPort)
	}
	if c.StreamBuffer <= 0 {
		return errors.Errorf("STREAM_BUFFER must be positive, got %d", c.StreamBuffer)
	}
	if c.AnthropicMaxTokens <= 0 {
		return errors.Errorf("ANTHROPIC_MAX_TOKENS must be positive, got %d", c.AnthropicMaxTokens)
	}
	return nil
}
