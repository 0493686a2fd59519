package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// Register creates a user.
// POST /v1/users/register
func (h *Handler) Register(c echo.Context) error {
	var req domain.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.service.Register(req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Login checks credentials. Wrong or unknown credentials answer ok=false.
// POST /v1/users/login
func (h *Handler) Login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": h.service.Login(req)})
}
