package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// ImageRequest asks for a placeholder image.
type ImageRequest struct {
	Prompt string `json:"prompt"`
}

// EchoRequest is echoed back unchanged.
type EchoRequest struct {
	Text string `json:"text"`
}

// ChatCompletion forwards a prompt to a provider.
// POST /v1/chat/completions
func (h *Handler) ChatCompletion(c echo.Context) error {
	var req domain.ChatCompletionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	text, err := h.service.ChatCompletion(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"text": text})
}

// GenerateImage returns a placeholder SVG data URI.
// POST /v1/images
func (h *Handler) GenerateImage(c echo.Context) error {
	var req ImageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return c.JSON(http.StatusOK, map[string]string{"data_uri": h.service.GenerateImage(req.Prompt)})
}

// WebSearch runs a search.
// GET /v1/search?q=
func (h *Handler) WebSearch(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return badRequest(c, "q is required")
	}

	text, err := h.service.WebSearch(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"text": text})
}

// ListModels returns the model catalog.
// GET /v1/models
func (h *Handler) ListModels(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"models": h.service.ListModels()})
}

// Echo returns the request text.
// POST /v1/echo
func (h *Handler) Echo(c echo.Context) error {
	var req EchoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return c.JSON(http.StatusOK, EchoRequest{Text: h.service.Echo(req.Text)})
}
