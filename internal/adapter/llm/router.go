package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/metrics"
)

// Router dispatches a completion to the client registered for the model's
// provider.
type Router struct {
	clients map[domain.Provider]Client
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewRouter creates a Router. m may be nil.
func NewRouter(clients map[domain.Provider]Client, m *metrics.Metrics) *Router {
	return &Router{
		clients: clients,
		metrics: m,
		logger:  log.With().Str("component", "llm").Logger(),
	}
}

// Supports reports whether a client is registered for provider.
func (r *Router) Supports(provider domain.Provider) bool {
	_, ok := r.clients[provider]
	return ok
}

// Complete checks the prompt against the model's token budget and forwards
// it. Providers without a client fail with domain.ErrUnsupportedProvider
// before any network call.
func (r *Router) Complete(ctx context.Context, apiKey, prompt string, model domain.ModelConfig) (string, error) {
	client, ok := r.clients[model.Provider]
	if !ok {
		return "", errors.Wrapf(domain.ErrUnsupportedProvider, "provider %q", model.Provider)
	}
	if err := CheckBudget(prompt, model); err != nil {
		return "", err
	}

	text, err := client.Complete(ctx, apiKey, prompt, model)
	r.metrics.Upstream(string(model.Provider), err)
	if err != nil {
		r.logger.Error().Err(err).Str("provider", string(model.Provider)).Str("model", model.Name).Msg("chat completion failed")
		return "", err
	}
	r.logger.Debug().Str("provider", string(model.Provider)).Str("model", model.Name).Int("reply_len", len(text)).Msg("chat completion")
	return text, nil
}
