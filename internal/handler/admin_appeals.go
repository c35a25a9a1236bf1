package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// ListAppeals handles GET /api/v1/admin/appeals, newest first.
func (h *AdminHandler) ListAppeals(c echo.Context) error {
	items, err := h.appeals.ListAll(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListPendingAppeals handles GET /api/v1/admin/appeals/pending: the appeal
// review queue, oldest first.
func (h *AdminHandler) ListPendingAppeals(c echo.Context) error {
	items, err := h.appeals.ListPending(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AppealStats handles GET /api/v1/admin/appeals/stats.
func (h *AdminHandler) AppealStats(c echo.Context) error {
	stats, err := h.appeals.Stats(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetAppeal handles GET /api/v1/admin/appeals/:id.
func (h *AdminHandler) GetAppeal(c echo.Context) error {
	ap, err := h.appeals.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, ap)
}

// UpdateAppealStatus handles PUT /api/v1/admin/appeals/:id/status. Accepting
// an appeal moves the user back into the review queue; an appeal can only be
// processed once.
func (h *AdminHandler) UpdateAppealStatus(c echo.Context) error {
	var body struct {
		Status     string  `json:"status"`
		AdminNotes *string `json:"admin_notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.AppealStatus(body.Status)
	if !model.ValidAppealStatus(status) || status == model.AppealPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ap, err := h.appeals.UpdateStatus(c.Request().Context(), c.Param("id"), status, body.AdminNotes)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, ap)
}
