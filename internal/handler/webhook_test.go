package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/whatsapp"
)

type fakeProcessor struct {
	msgs        []whatsapp.Message
	hadDeadline bool
}

func (f *fakeProcessor) HandleMessage(ctx context.Context, msg whatsapp.Message) {
	_, f.hadDeadline = ctx.Deadline()
	f.msgs = append(f.msgs, msg)
}

func newTestWebhookHandler() (*WebhookHandler, *fakeProcessor) {
	gateway := whatsapp.NewClient("https://graph.example.com/v18.0", "token", "12345", "verify-secret", zerolog.Nop())
	proc := &fakeProcessor{}
	return NewWebhookHandler(gateway, proc, zerolog.Nop()), proc
}

func TestVerifyHandshake(t *testing.T) {
	wh, _ := newTestWebhookHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=verify-secret&hub.challenge=abc123", nil)
	rec := httptest.NewRecorder()
	if err := wh.Verify(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "abc123" {
		t.Fatalf("body = %q, want the challenge echoed", rec.Body.String())
	}
}

func TestVerifyHandshakeRejected(t *testing.T) {
	wh, _ := newTestWebhookHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=abc123", nil)
	rec := httptest.NewRecorder()
	if err := wh.Verify(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

const inboundPayload = `{
  "id": "entry-1",
  "changes": [{
    "field": "messages",
    "value": {
      "messaging_product": "whatsapp",
      "contacts": [{"wa_id": "15551234567", "profile": {"name": "Jane"}}],
      "messages": [{
        "from": "15551234567",
        "id": "wamid.A1",
        "timestamp": "1717243800",
        "type": "text",
        "text": {"body": "hello"}
      }]
    }
  }]
}`

// Every message must be fully processed, on the request path and under a
// deadline, before Receive acknowledges the delivery.
func TestReceiveProcessesBeforeAcknowledging(t *testing.T) {
	wh, proc := newTestWebhookHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundPayload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := wh.Receive(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if len(proc.msgs) != 1 {
		t.Fatalf("processed %d messages before the ack, want 1", len(proc.msgs))
	}
	if msg := proc.msgs[0]; msg.From != "15551234567" || msg.TextBody != "hello" {
		t.Fatalf("dispatched %+v", msg)
	}
	if !proc.hadDeadline {
		t.Fatal("engine context has no deadline")
	}
}

func TestReceiveAcknowledgesMalformedPayload(t *testing.T) {
	wh, proc := newTestWebhookHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := wh.Receive(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	// The platform retries on non-2xx, so junk still gets a 200.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(proc.msgs) != 0 {
		t.Fatalf("unexpected dispatch: %+v", proc.msgs)
	}
}
