package llm

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Andrewp2/andrew-chat/internal/config"
	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/metrics"
)

// NewClient builds the provider router from cfg. With CHAT_MODE=MOCK every
// supported provider is served by a MockClient.
func NewClient(cfg *config.Config, httpClient *http.Client, m *metrics.Metrics) *Router {
	if cfg.MockMode() {
		log.Info().Str("component", "llm").Msg("CHAT_MODE=MOCK detected, using mock LLM client")
		mock := NewMockClient()
		return NewRouter(map[domain.Provider]Client{
			domain.ProviderOpenAI:    mock,
			domain.ProviderAnthropic: mock,
		}, m)
	}

	return NewRouter(map[domain.Provider]Client{
		domain.ProviderOpenAI:    NewOpenAIClient(cfg.OpenAIBaseURL, httpClient),
		domain.ProviderAnthropic: NewAnthropicClient(cfg.AnthropicBaseURL, cfg.AnthropicVersion, cfg.AnthropicMaxTokens, httpClient),
	}, m)
}
