package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// ListUsers handles GET /api/v1/admin/users and returns every registered
// user, newest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	items, err := h.users.ListAll(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListPendingUsers handles GET /api/v1/admin/users/pending: the review
// queue, oldest first.
func (h *AdminHandler) ListPendingUsers(c echo.Context) error {
	items, err := h.users.ListPending(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UserStats handles GET /api/v1/admin/users/stats.
func (h *AdminHandler) UserStats(c echo.Context) error {
	stats, err := h.users.Stats(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetUser handles GET /api/v1/admin/users/:id.
func (h *AdminHandler) GetUser(c echo.Context) error {
	u, err := h.users.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateUserStatus handles PUT /api/v1/admin/users/:id/status. Rejections
// raise the rejection count and may ban the user permanently.
func (h *AdminHandler) UpdateUserStatus(c echo.Context) error {
	var body struct {
		Status     string  `json:"status"`
		AdminNotes *string `json:"admin_notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.UserStatus(body.Status)
	if !model.ValidUserStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	u, err := h.users.UpdateStatus(c.Request().Context(), c.Param("id"), status, body.AdminNotes)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
