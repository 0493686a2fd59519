package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	baseURL    string
	version    string
	maxTokens  int
	httpClient *http.Client
}

// NewAnthropicClient creates a client for the API rooted at baseURL
// (e.g. https://api.anthropic.com).
func NewAnthropicClient(baseURL, version string, maxTokens int, httpClient *http.Client) *AnthropicClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AnthropicClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		version:    version,
		maxTokens:  maxTokens,
		httpClient: httpClient,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

// Complete posts prompt to /v1/messages and returns content[0].text.
func (c *AnthropicClient) Complete(ctx context.Context, apiKey, prompt string, model domain.ModelConfig) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     model.Name,
		MaxTokens: c.maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	c.setHeaders(httpReq, apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", c.upstream(errors.Wrap(err, "failed to send request"))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.upstream(errors.Wrap(err, "failed to read response"))
	}
	if !json.Valid(respBody) {
		return "", c.upstream(errors.Errorf("response is not JSON (status %d)", resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK {
		if msg, err := jsonparser.GetString(respBody, "error", "message"); err == nil {
			return "", c.upstream(errors.Errorf("anthropic API error [%d]: %s", resp.StatusCode, msg))
		}
		return "", c.upstream(errors.Errorf("anthropic API error [%d]: %s", resp.StatusCode, string(respBody)))
	}

	text, err := jsonparser.GetString(respBody, "content", "[0]", "text")
	if err != nil {
		return "", c.upstream(errors.Wrap(err, "response has no content[0].text"))
	}
	return text, nil
}

func (c *AnthropicClient) setHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", c.version)
}

func (c *AnthropicClient) upstream(err error) error {
	return domain.NewUpstreamError(string(domain.ProviderAnthropic), err)
}
