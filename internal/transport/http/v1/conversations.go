package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// NDJSONContentType is the media type of the message stream.
const NDJSONContentType = "application/x-ndjson"

// CreateConversation creates an empty conversation.
// POST /v1/conversations
func (h *Handler) CreateConversation(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"id": h.service.CreateConversation()})
}

// ListConversations lists every conversation id.
// GET /v1/conversations
func (h *Handler) ListConversations(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]int{"ids": h.service.ListConversations()})
}

// SendMessage appends a message. An unknown id still answers ok, with
// stored=false.
// POST /v1/conversations/:id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	id, ok := conversationID(c)
	if !ok {
		return badRequest(c, "conversation id must be an integer")
	}

	var msg domain.Message
	if err := c.Bind(&msg); err != nil {
		return badRequest(c, "invalid request body")
	}

	stored, err := h.service.SendMessage(id, msg)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true, "stored": stored})
}

// GetMessages returns a snapshot of a conversation.
// GET /v1/conversations/:id/messages
func (h *Handler) GetMessages(c echo.Context) error {
	id, ok := conversationID(c)
	if !ok {
		return badRequest(c, "conversation id must be an integer")
	}

	messages := h.service.GetMessages(id)
	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// StreamMessages writes one IndexedMessage per line, replaying from ?from
// and then following new messages until the client disconnects.
// GET /v1/conversations/:id/stream
func (h *Handler) StreamMessages(c echo.Context) error {
	id, ok := conversationID(c)
	if !ok {
		return badRequest(c, "conversation id must be an integer")
	}
	from := 0
	if f := c.QueryParam("from"); f != "" {
		val, err := strconv.Atoi(f)
		if err != nil {
			return badRequest(c, "from must be an integer")
		}
		from = val
	}

	stream := h.service.StreamMessages(id, from)
	defer stream.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, NDJSONContentType)
	res.Header().Set("Cache-Control", "no-cache")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx := c.Request().Context()
	enc := json.NewEncoder(res)
	for {
		msg, ok := stream.Next(ctx)
		if !ok {
			return nil
		}
		if err := enc.Encode(msg); err != nil {
			return nil
		}
		res.Flush()
	}
}

// SubmitPrompt appends a user prompt and the AI reply.
// POST /v1/conversations/:id/prompt
func (h *Handler) SubmitPrompt(c echo.Context) error {
	id, ok := conversationID(c)
	if !ok {
		return badRequest(c, "conversation id must be an integer")
	}

	var req domain.PromptRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.service.SubmitPrompt(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
