// Package service holds the application state shared by every transport.
package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Andrewp2/andrew-chat/internal/adapter/llm"
	"github.com/Andrewp2/andrew-chat/internal/catalog"
	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/policy"
	"github.com/Andrewp2/andrew-chat/internal/store"
)

// Searcher runs a web search and returns plain-text snippets.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type Service struct {
	conversations store.Conversations
	users         store.Users
	llmClient     llm.Dispatcher
	searcher      Searcher
	models        *catalog.Catalog
	policyEngine  *policy.Engine
	validate      *validator.Validate
	logger        zerolog.Logger
}

func New(conversations store.Conversations, users store.Users, llmClient llm.Dispatcher, searcher Searcher, models *catalog.Catalog, policyEngine *policy.Engine) *Service {
	return &Service{
		conversations: conversations,
		users:         users,
		llmClient:     llmClient,
		searcher:      searcher,
		models:        models,
		policyEngine:  policyEngine,
		validate:      validator.New(),
		logger:        log.With().Str("component", "service").Logger(),
	}
}

// Echo returns input unchanged.
func (s *Service) Echo(input string) string {
	return input
}

// ListModels returns the model catalog.
func (s *Service) ListModels() []domain.ModelConfig {
	return s.models.Models()
}

func (s *Service) check(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		return errors.Wrap(domain.ErrInvalidRequest, err.Error())
	}
	return nil
}
