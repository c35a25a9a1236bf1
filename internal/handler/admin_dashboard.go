package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Dashboard handles GET /api/v1/admin/dashboard and aggregates the user,
// session and appeal stats into one payload for the overview screen.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	userStats, err := h.users.Stats(ctx)
	if err != nil {
		return jsonError(c, err)
	}
	sessionStats, err := h.sessions.Stats(ctx)
	if err != nil {
		return jsonError(c, err)
	}
	appealStats, err := h.appeals.Stats(ctx)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":    userStats,
		"sessions": sessionStats,
		"appeals":  appealStats,
	})
}
