package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/policy"
)

// GeneratedImageFilename names the attachment on image replies.
const GeneratedImageFilename = "generated_image.png"

// SubmitPrompt appends the user's message to conversation id, produces a
// reply through the route chosen by the policy and appends that too. When
// the upstream call fails the user message stays and nothing else is
// appended.
func (s *Service) SubmitPrompt(ctx context.Context, id int, req domain.PromptRequest) (*domain.PromptResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	model, err := s.models.Resolve(req.Model)
	if err != nil {
		return nil, err
	}

	userMsg := domain.NewTextMessage(domain.SenderUser, req.Text)
	userMsg.Attachment = normalizeAttachment(req.Attachment)
	if !s.conversations.SendMessage(id, userMsg) {
		return nil, errors.Wrapf(domain.ErrNotFound, "conversation %d", id)
	}

	route, err := s.policyEngine.Route(ctx, policy.RouteInput{
		GenerateImage: req.GenerateImage,
		WebSearch:     req.WebSearch,
		Model:         model,
	})
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().Int("conversation", id).Str("route", route).Str("model", model.Name).Logger()

	var reply domain.Message
	switch route {
	case policy.RouteImage:
		uri := GenerateImage(req.Text)
		contentType, _ := dataURIMediaType(uri)
		reply = domain.NewTextMessage(domain.SenderAI, "Generated image for: "+req.Text)
		reply.Attachment = &domain.Attachment{
			Filename:    GeneratedImageFilename,
			ContentType: contentType,
			Data:        uri,
		}
	case policy.RouteSearch:
		results, err := s.searcher.Search(ctx, req.Text)
		if err != nil {
			logger.Error().Err(err).Msg("prompt search failed")
			return nil, err
		}
		text, err := s.llmClient.Complete(ctx, req.APIKey, searchPrompt(results, req.Text), model)
		if err != nil {
			logger.Error().Err(err).Msg("prompt completion failed")
			return nil, err
		}
		reply = domain.NewTextMessage(domain.SenderAI, text)
	default:
		text, err := s.llmClient.Complete(ctx, req.APIKey, req.Text, model)
		if err != nil {
			logger.Error().Err(err).Msg("prompt completion failed")
			return nil, err
		}
		reply = domain.NewTextMessage(domain.SenderAI, text)
	}

	s.conversations.SendMessage(id, reply)
	logger.Info().Msg("prompt answered")
	return &domain.PromptResponse{Reply: reply, Route: route}, nil
}

func searchPrompt(results, question string) string {
	if results == "" {
		return question
	}
	return fmt.Sprintf("Web search results:\n%s\n\nUsing the results above where relevant, answer: %s", results, question)
}
