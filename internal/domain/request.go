package domain

// ChatCompletionRequest asks a provider for a single reply to a prompt.
type ChatCompletionRequest struct {
	APIKey string      `json:"api_key"`
	Prompt string      `json:"prompt"`
	Model  ModelConfig `json:"model"`
}

// RegisterRequest carries credentials for a new user.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest carries credentials to check.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PromptRequest is a user turn routed to the chat, image or search path.
type PromptRequest struct {
	APIKey        string      `json:"api_key"`
	Text          string      `json:"text" validate:"required"`
	Attachment    *Attachment `json:"attachment,omitempty"`
	Model         string      `json:"model,omitempty"`
	GenerateImage bool        `json:"generate_image"`
	WebSearch     bool        `json:"web_search"`
}

// PromptResponse carries the AI message appended for a prompt.
type PromptResponse struct {
	Reply Message `json:"reply"`
	Route string  `json:"route"`
}
