// Package client is a Go client for the chat HTTP and WebSocket API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// Client is an HTTP client for the chat API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client for the server at baseURL
// (e.g. http://localhost:8080).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat API error [%d] %s: %s", e.Status, e.Code, e.Message)
}

// CreateConversation calls POST /v1/conversations.
func (c *Client) CreateConversation(ctx context.Context) (int, error) {
	var resp struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/conversations", nil, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// ListConversations calls GET /v1/conversations.
func (c *Client) ListConversations(ctx context.Context) ([]int, error) {
	var resp struct {
		IDs []int `json:"ids"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/conversations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// SendMessage calls POST /v1/conversations/:id/messages and reports whether
// the message was stored.
func (c *Client) SendMessage(ctx context.Context, id int, msg domain.Message) (bool, error) {
	var resp struct {
		Stored bool `json:"stored"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/conversations/%d/messages", id), msg, &resp); err != nil {
		return false, err
	}
	return resp.Stored, nil
}

// GetMessages calls GET /v1/conversations/:id/messages.
func (c *Client) GetMessages(ctx context.Context, id int) ([]domain.Message, error) {
	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/conversations/%d/messages", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// SubmitPrompt calls POST /v1/conversations/:id/prompt.
func (c *Client) SubmitPrompt(ctx context.Context, id int, req domain.PromptRequest) (*domain.PromptResponse, error) {
	var resp domain.PromptResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/conversations/%d/prompt", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListModels calls GET /v1/models.
func (c *Client) ListModels(ctx context.Context) ([]domain.ModelConfig, error) {
	var resp struct {
		Models []domain.ModelConfig `json:"models"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/models", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(respBody, out), "failed to decode response")
}
