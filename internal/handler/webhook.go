package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/whatsapp"
)

// WebhookHandler receives the messaging platform's webhook traffic: the GET
// subscription handshake and POSTed message payloads.
type WebhookHandler struct {
	gateway *whatsapp.Client
	engine  MessageProcessor
	log     zerolog.Logger
}

// MessageProcessor consumes normalized inbound messages. *bot.Engine
// satisfies it.
type MessageProcessor interface {
	HandleMessage(ctx context.Context, msg whatsapp.Message)
}

// NewWebhookHandler wires a webhook handler.
func NewWebhookHandler(gateway *whatsapp.Client, engine MessageProcessor, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		gateway: gateway,
		engine:  engine,
		log:     log.With().Str("component", "webhook").Logger(),
	}
}

// Verify handles GET /webhook, the platform's subscription handshake. A
// matching verify token gets the challenge echoed back; anything else is
// forbidden.
func (h *WebhookHandler) Verify(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	challenge := c.QueryParam("hub.challenge")

	echoed, ok := h.gateway.VerifyWebhook(mode, token, challenge)
	if !ok {
		h.log.Warn().Str("mode", mode).Msg("webhook verification rejected")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "verification failed"})
	}
	return c.String(http.StatusOK, echoed)
}

// processTimeout caps how long one webhook delivery may spend in the
// conversation engine before its context is cancelled. The platform retries
// deliveries it has not seen acknowledged within roughly half a minute.
const processTimeout = 25 * time.Second

// Receive handles POST /webhook. Every normalized message is processed to
// completion before the acknowledgement goes out, under a request-scoped
// deadline. Successful deliveries and malformed bodies both get a 200 so
// the platform does not retry or disable the webhook.
func (h *WebhookHandler) Receive(c echo.Context) error {
	var entry whatsapp.WebhookEntry
	if err := c.Bind(&entry); err != nil {
		h.log.Warn().Err(err).Msg("malformed webhook payload")
		return c.NoContent(http.StatusOK)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), processTimeout)
	defer cancel()
	for _, m := range whatsapp.Normalize(entry) {
		h.engine.HandleMessage(ctx, m)
	}
	return c.NoContent(http.StatusOK)
}
