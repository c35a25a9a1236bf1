package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/queue"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/repository"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/service"
)

// EventPublisher emits domain events onto the broker. *queue.Publisher
// satisfies it; a nil publisher disables emission.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// AdminHandler exposes the review and monitoring API consumed by the admin
// dashboard. All routes behind it require a valid admin token.
type AdminHandler struct {
	users    *service.UserService
	sessions *service.SessionService
	appeals  *service.AppealService
	events   EventPublisher
	log      zerolog.Logger
}

// NewAdminHandler wires an AdminHandler.
func NewAdminHandler(users *service.UserService, sessions *service.SessionService, appeals *service.AppealService, events EventPublisher, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		users:    users,
		sessions: sessions,
		appeals:  appeals,
		events:   events,
		log:      log.With().Str("component", "admin").Logger(),
	}
}

// publish emits a domain event, best effort. Admin actions never fail on a
// broker hiccup.
func (h *AdminHandler) publish(ctx context.Context, ev queue.Event) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ctx, ev); err != nil {
		h.log.Warn().Err(err).Str("type", ev.Type).Msg("event publish failed")
	}
}

// jsonError maps service and repository errors onto HTTP responses with a
// JSON {"error": ...} body.
func jsonError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	case errors.Is(err, service.ErrAppealProcessed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "appeal already processed"})
	case errors.Is(err, service.ErrPendingAppealExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "pending appeal already exists"})
	case errors.Is(err, service.ErrFeedbackExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "feedback already submitted"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate record"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
