package rpc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/service"
)

// Handler implements the chat RPC methods.
type Handler struct {
	service *service.Service
}

// Empty is the argument of methods that take none.
type Empty struct{}

// TextArgs carries a single string.
type TextArgs struct {
	Text string `json:"text"`
}

// TextReply carries a single string.
type TextReply struct {
	Text string `json:"text"`
}

// CreateConversationReply carries the new conversation id.
type CreateConversationReply struct {
	ID int `json:"id"`
}

// ListConversationsReply carries every conversation id.
type ListConversationsReply struct {
	IDs []int `json:"ids"`
}

// SendMessageArgs addresses a message to a conversation.
type SendMessageArgs struct {
	ConversationID int            `json:"conversation_id"`
	Message        domain.Message `json:"message"`
}

// SendMessageReply reports whether the message was stored.
type SendMessageReply struct {
	OK     bool `json:"ok"`
	Stored bool `json:"stored"`
}

// GetMessagesArgs identifies a conversation.
type GetMessagesArgs struct {
	ConversationID int `json:"conversation_id"`
}

// GetMessagesReply carries a conversation snapshot.
type GetMessagesReply struct {
	Messages []domain.Message `json:"messages"`
}

// GenerateImageArgs carries the image prompt.
type GenerateImageArgs struct {
	Prompt string `json:"prompt"`
}

// GenerateImageReply carries the image data URI.
type GenerateImageReply struct {
	DataURI string `json:"data_uri"`
}

// WebSearchArgs carries a search query.
type WebSearchArgs struct {
	Query string `json:"query"`
}

// ListModelsReply carries the model catalog.
type ListModelsReply struct {
	Models []domain.ModelConfig `json:"models"`
}

// AckResponse is a generic OK response.
type AckResponse struct {
	OK bool `json:"ok"`
}

// Echo returns its input.
func (h *Handler) Echo(req *TextArgs, resp *TextReply) error {
	if req == nil {
		return errors.New("echo request is required")
	}
	resp.Text = h.service.Echo(req.Text)
	return nil
}

// CreateConversation creates an empty conversation.
func (h *Handler) CreateConversation(_ *Empty, resp *CreateConversationReply) error {
	resp.ID = h.service.CreateConversation()
	return nil
}

// ListConversations lists conversation ids.
func (h *Handler) ListConversations(_ *Empty, resp *ListConversationsReply) error {
	resp.IDs = h.service.ListConversations()
	return nil
}

// SendMessage appends a message. Unknown ids succeed with Stored=false.
func (h *Handler) SendMessage(req *SendMessageArgs, resp *SendMessageReply) error {
	if req == nil {
		return errors.New("send message request is required")
	}
	stored, err := h.service.SendMessage(req.ConversationID, req.Message)
	if err != nil {
		return err
	}
	resp.OK = true
	resp.Stored = stored
	return nil
}

// GetMessages returns a conversation snapshot.
func (h *Handler) GetMessages(req *GetMessagesArgs, resp *GetMessagesReply) error {
	if req == nil {
		return errors.New("get messages request is required")
	}
	resp.Messages = h.service.GetMessages(req.ConversationID)
	if resp.Messages == nil {
		resp.Messages = []domain.Message{}
	}
	return nil
}

// Register creates a user.
func (h *Handler) Register(req *domain.RegisterRequest, resp *AckResponse) error {
	if req == nil {
		return errors.New("register request is required")
	}
	if err := h.service.Register(*req); err != nil {
		return err
	}
	resp.OK = true
	return nil
}

// Login checks credentials.
func (h *Handler) Login(req *domain.LoginRequest, resp *AckResponse) error {
	if req == nil {
		return errors.New("login request is required")
	}
	resp.OK = h.service.Login(*req)
	return nil
}

// ChatCompletion forwards a prompt to a provider.
func (h *Handler) ChatCompletion(req *domain.ChatCompletionRequest, resp *TextReply) error {
	if req == nil {
		return errors.New("chat completion request is required")
	}
	text, err := h.service.ChatCompletion(context.Background(), *req)
	if err != nil {
		return err
	}
	resp.Text = text
	return nil
}

// GenerateImage returns a placeholder image data URI.
func (h *Handler) GenerateImage(req *GenerateImageArgs, resp *GenerateImageReply) error {
	if req == nil {
		return errors.New("generate image request is required")
	}
	resp.DataURI = h.service.GenerateImage(req.Prompt)
	return nil
}

// WebSearch runs a search.
func (h *Handler) WebSearch(req *WebSearchArgs, resp *TextReply) error {
	if req == nil {
		return errors.New("web search request is required")
	}
	if req.Query == "" {
		return errors.New("query is required")
	}
	text, err := h.service.WebSearch(context.Background(), req.Query)
	if err != nil {
		return err
	}
	resp.Text = text
	return nil
}

// ListModels returns the model catalog.
func (h *Handler) ListModels(_ *Empty, resp *ListModelsReply) error {
	resp.Models = h.service.ListModels()
	return nil
}
