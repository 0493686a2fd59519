package llm

import (
	"context"
	"fmt"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// MockClient answers every prompt with a canned reply and never touches the
// network.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Complete returns a mock response echoing the prompt.
func (m *MockClient) Complete(ctx context.Context, apiKey, prompt string, model domain.ModelConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prompt == "" {
		return "[MOCK] This is a mock response from the LLM client.", nil
	}
	return fmt.Sprintf("[MOCK] %s received your message: %q. This is a mock response.", model.Name, truncate(prompt, 100)), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
