package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// ChatCompletion forwards a single prompt to the provider named by the model
// config. A config without a provider is looked up in the catalog by name,
// and an empty name selects the default model. An unsupported provider is
// rejected before anything else about the request is checked.
func (s *Service) ChatCompletion(ctx context.Context, req domain.ChatCompletionRequest) (string, error) {
	if req.Model.Provider == "" {
		model, err := s.models.Resolve(req.Model.Name)
		if err != nil {
			return "", err
		}
		req.Model = model
	}
	if !s.llmClient.Supports(req.Model.Provider) {
		return "", errors.Wrapf(domain.ErrUnsupportedProvider, "provider %q", req.Model.Provider)
	}
	if err := s.check(req); err != nil {
		return "", err
	}
	return s.llmClient.Complete(ctx, req.APIKey, req.Prompt, req.Model)
}

// WebSearch returns the joined related-topic snippets for query.
func (s *Service) WebSearch(ctx context.Context, query string) (string, error) {
	text, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("web search failed")
		return "", err
	}
	return text, nil
}
