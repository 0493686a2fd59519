// Package llm provides the chat-completion clients for the supported AI
// providers.
package llm

import (
	"context"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// Client sends a single-turn prompt to a model and returns the reply text.
type Client interface {
	Complete(ctx context.Context, apiKey, prompt string, model domain.ModelConfig) (string, error)
}

// Dispatcher is a Client that picks the upstream by provider.
type Dispatcher interface {
	Client
	Supports(provider domain.Provider) bool
}

// Ensure the provider clients implement Client.
var (
	_ Client     = (*OpenAIClient)(nil)
	_ Client     = (*AnthropicClient)(nil)
	_ Client     = (*MockClient)(nil)
	_ Dispatcher = (*Router)(nil)
)
