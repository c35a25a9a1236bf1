package whatsapp

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the WhatsApp Cloud API on behalf of one business phone
// number. All send methods share the same messages endpoint.
type Client struct {
	httpc         *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
	verifyToken   string
	log           zerolog.Logger
}

// NewClient builds a gateway client. baseURL is the Graph API root without a
// trailing slash, e.g. https://graph.facebook.com/v18.0.
func NewClient(baseURL, accessToken, phoneNumberID, verifyToken string, log zerolog.Logger) *Client {
	return &Client{
		httpc:         &http.Client{Timeout: 15 * time.Second},
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		verifyToken:   verifyToken,
		log:           log.With().Str("component", "whatsapp").Logger(),
	}
}

// VerifyWebhook checks a subscription handshake. It returns the challenge to
// echo back and whether the handshake is valid.
func (c *Client) VerifyWebhook(mode, token, challenge string) (string, bool) {
	if mode != "subscribe" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.verifyToken)) != 1 {
		return "", false
	}
	return challenge, true
}

// SendText delivers a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	return c.send(ctx, outbound{
		To:   to,
		Type: "text",
		Text: &textBody{Body: body},
	})
}

// SendImage delivers an image by public link with an optional caption.
func (c *Client) SendImage(ctx context.Context, to, link, caption string) (string, error) {
	return c.send(ctx, outbound{
		To:    to,
		Type:  "image",
		Image: &mediaLink{Link: link, Caption: caption},
	})
}

// SendVideo delivers a video by public link with an optional caption.
func (c *Client) SendVideo(ctx context.Context, to, link, caption string) (string, error) {
	return c.send(ctx, outbound{
		To:    to,
		Type:  "video",
		Video: &mediaLink{Link: link, Caption: caption},
	})
}

// SendAudio delivers an audio clip by public link.
func (c *Client) SendAudio(ctx context.Context, to, link string) (string, error) {
	return c.send(ctx, outbound{
		To:    to,
		Type:  "audio",
		Audio: &mediaLink{Link: link},
	})
}

// SendDocument delivers a document by public link with a filename shown to
// the recipient.
func (c *Client) SendDocument(ctx context.Context, to, link, filename, caption string) (string, error) {
	return c.send(ctx, outbound{
		To:       to,
		Type:     "document",
		Document: &mediaLink{Link: link, Filename: filename, Caption: caption},
	})
}

// SendLocation delivers a map pin.
func (c *Client) SendLocation(ctx context.Context, to string, lat, lng float64, name, address string) (string, error) {
	return c.send(ctx, outbound{
		To:       to,
		Type:     "location",
		Location: &location{Latitude: lat, Longitude: lng, Name: name, Address: address},
	})
}

// SendContact delivers a single contact card.
func (c *Client) SendContact(ctx context.Context, to, formattedName, phone string) (string, error) {
	card := &contactCard{}
	card.Name.FormattedName = formattedName
	card.Phones = append(card.Phones, struct {
		Phone string `json:"phone"`
	}{Phone: phone})
	return c.send(ctx, outbound{
		To:      to,
		Type:    "contact",
		Contact: card,
	})
}

// SendButtons delivers an interactive message with up to three reply buttons.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button) (string, error) {
	iv := &interactive{Type: "button"}
	iv.Body.Text = body
	for _, b := range buttons {
		iv.Action.Buttons = append(iv.Action.Buttons, replyButton{Type: "reply", Reply: b})
	}
	return c.send(ctx, outbound{
		To:          to,
		Type:        "interactive",
		Interactive: iv,
	})
}

// SendList delivers an interactive list message with selectable rows.
func (c *Client) SendList(ctx context.Context, to, body string, sections []Section) (string, error) {
	iv := &interactive{Type: "list"}
	iv.Body.Text = body
	iv.Action.Sections = sections
	return c.send(ctx, outbound{
		To:          to,
		Type:        "interactive",
		Interactive: iv,
	})
}

// SendTemplate delivers a pre-approved template message.
func (c *Client) SendTemplate(ctx context.Context, to, name, languageCode string, components []TemplateComponent) (string, error) {
	tpl := &template{Name: name, Components: components}
	tpl.Language.Code = languageCode
	return c.send(ctx, outbound{
		To:       to,
		Type:     "template",
		Template: tpl,
	})
}

// MarkRead acknowledges an inbound message so the sender sees read receipts.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	payload := markRead{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	}
	_, err := c.post(ctx, payload)
	return err
}

// send fills the shared envelope fields and posts the message, returning the
// platform message id.
func (c *Client) send(ctx context.Context, msg outbound) (string, error) {
	msg.MessagingProduct = "whatsapp"
	msg.RecipientType = "individual"
	body, err := c.post(ctx, msg)
	if err != nil {
		c.log.Error().Err(err).Str("to", msg.To).Str("type", msg.Type).Msg("send failed")
		return "", err
	}
	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode send response: %w", err)
	}
	if len(resp.Messages) == 0 {
		return "", nil
	}
	return resp.Messages[0].ID, nil
}

func (c *Client) post(ctx context.Context, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp api request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("whatsapp api status %d: %s", res.StatusCode, body)
	}
	return body, nil
}
