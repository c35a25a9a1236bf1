package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/queue"
)

// ListSessions handles GET /api/v1/admin/sessions and returns the sessions
// currently in progress.
func (h *AdminHandler) ListSessions(c echo.Context) error {
	items, err := h.sessions.ListActive(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SessionStats handles GET /api/v1/admin/sessions/stats.
func (h *AdminHandler) SessionStats(c echo.Context) error {
	stats, err := h.sessions.Stats(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetSession handles GET /api/v1/admin/sessions/:id.
func (h *AdminHandler) GetSession(c echo.Context) error {
	sess, err := h.sessions.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// UpdateSessionStatus handles PUT /api/v1/admin/sessions/:id/status. Moving
// a session to COMPLETED stamps its completion time.
func (h *AdminHandler) UpdateSessionStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.SessionStatus(body.Status)
	if !model.ValidSessionStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	sess, err := h.sessions.UpdateStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// ListPendingReminders handles GET /api/v1/admin/reminders/pending: every
// unsent reminder whose due date has passed, oldest first.
func (h *AdminHandler) ListPendingReminders(c echo.Context) error {
	items, err := h.sessions.PendingReminders(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MarkReminderSent handles POST /api/v1/admin/reminders/:id/mark-sent.
func (h *AdminHandler) MarkReminderSent(c echo.Context) error {
	id := c.Param("id")
	if err := h.sessions.MarkReminderSent(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	h.publish(c.Request().Context(), queue.Event{Type: queue.EventReminderSent, ReminderID: id})
	return c.NoContent(http.StatusNoContent)
}
