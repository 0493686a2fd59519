package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates a client for the API rooted at baseURL
// (e.g. https://api.openai.com/v1).
func NewOpenAIClient(baseURL string, httpClient *http.Client) *OpenAIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Complete sends prompt as a single user message and returns
// choices[0].message.content.
func (c *OpenAIClient) Complete(ctx context.Context, apiKey, prompt string, model domain.ModelConfig) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model.Name,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", domain.NewUpstreamError(string(domain.ProviderOpenAI),
				errors.Errorf("openai API error [%d]: %s", apiErr.HTTPStatusCode, apiErr.Message))
		}
		return "", domain.NewUpstreamError(string(domain.ProviderOpenAI), errors.Wrap(err, "chat completion"))
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewUpstreamError(string(domain.ProviderOpenAI), errors.New("response has no choices[0].message.content"))
	}
	return resp.Choices[0].Message.Content, nil
}
