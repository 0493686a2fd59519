// Package v1 provides the HTTP handlers of the chat API.
package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/service"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Conversation API
	e.POST("/v1/conversations", h.CreateConversation)
	e.GET("/v1/conversations", h.ListConversations)
	e.POST("/v1/conversations/:id/messages", h.SendMessage)
	e.GET("/v1/conversations/:id/messages", h.GetMessages)
	e.GET("/v1/conversations/:id/stream", h.StreamMessages)
	e.POST("/v1/conversations/:id/prompt", h.SubmitPrompt)

	// User API
	e.POST("/v1/users/register", h.Register)
	e.POST("/v1/users/login", h.Login)

	// Provider API
	e.POST("/v1/chat/completions", h.ChatCompletion)
	e.POST("/v1/images", h.GenerateImage)
	e.GET("/v1/search", h.WebSearch)
	e.GET("/v1/models", h.ListModels)
	e.POST("/v1/echo", h.Echo)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeAlreadyExists       = "already_exists"
	CodeUnsupportedProvider = "unsupported_provider"
	CodeUpstream            = "upstream_error"
	CodeNotFound            = "not_found"
	CodeInternal            = "internal"
)

// StatusFor maps a service error to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	case errors.Is(err, domain.ErrUnsupportedProvider):
		return http.StatusBadRequest, CodeUnsupportedProvider
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, CodeUpstream
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func respondError(c echo.Context, err error) error {
	status, code := StatusFor(err)
	return c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeInvalidRequest})
}

// conversationID parses the :id path parameter.
func conversationID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}
