// Package whatsapp implements the messaging gateway against the WhatsApp
// Cloud API: outbound sends, webhook verification and normalization of
// inbound webhook payloads into flat messages for the conversation engine.
package whatsapp

// Button is one reply option in an interactive button message.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Row is one selectable entry in an interactive list section.
type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Section groups rows in an interactive list message.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// TemplateParameter is a single substitution value in a template component.
type TemplateParameter struct {
	Type     string     `json:"type"` // text | image | document | video
	Text     string     `json:"text,omitempty"`
	Image    *mediaLink `json:"image,omitempty"`
	Document *mediaLink `json:"document,omitempty"`
	Video    *mediaLink `json:"video,omitempty"`
}

// TemplateComponent is one header/body/button block of a template message.
type TemplateComponent struct {
	Type       string              `json:"type"` // header | body | button
	Parameters []TemplateParameter `json:"parameters,omitempty"`
}

// outbound mirrors the Cloud API message envelope. Exactly one of the typed
// payload fields is set, matching the Type discriminator.
type outbound struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *textBody    `json:"text,omitempty"`
	Image            *mediaLink   `json:"image,omitempty"`
	Video            *mediaLink   `json:"video,omitempty"`
	Audio            *mediaLink   `json:"audio,omitempty"`
	Document         *mediaLink   `json:"document,omitempty"`
	Location         *location    `json:"location,omitempty"`
	Contact          *contactCard `json:"contact,omitempty"`
	Interactive      *interactive `json:"interactive,omitempty"`
	Template         *template    `json:"template,omitempty"`
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

type mediaLink struct {
	Link     string `json:"link"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type contactCard struct {
	Name struct {
		FormattedName string `json:"formatted_name"`
		FirstName     string `json:"first_name,omitempty"`
		LastName      string `json:"last_name,omitempty"`
	} `json:"name"`
	Phones []struct {
		Phone string `json:"phone"`
	} `json:"phones"`
}

type interactive struct {
	Type   string `json:"type"` // button | list
	Body   struct {
		Text string `json:"text"`
	} `json:"body"`
	Action struct {
		Buttons  []replyButton `json:"buttons,omitempty"`
		Sections []Section     `json:"sections,omitempty"`
	} `json:"action"`
}

type replyButton struct {
	Type  string `json:"type"` // always "reply"
	Reply Button `json:"reply"`
}

type template struct {
	Name     string `json:"name"`
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

// markRead is the payload that acknowledges an inbound message.
type markRead struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

// sendResponse is the subset of the Cloud API send response the gateway
// cares about.
type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// WebhookEntry is the inbound webhook body: one entry holding a list of
// field changes, each carrying contacts and messages.
type WebhookEntry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change is one field change inside a webhook entry. Only "messages"
// changes carry conversational traffic.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the contacts and messages of a "messages" change.
type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Contacts         []InboundContact `json:"contacts"`
	Messages         []InboundMessage `json:"messages"`
}

// InboundContact links a WhatsApp id to the sender's profile name.
type InboundContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// InboundMessage is one raw message unit from the webhook payload.
type InboundMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
	Image    *inboundMedia `json:"image,omitempty"`
	Video    *inboundMedia `json:"video,omitempty"`
	Audio    *inboundMedia `json:"audio,omitempty"`
	Document *inboundMedia `json:"document,omitempty"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply,omitempty"`
		ListReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply,omitempty"`
	} `json:"interactive,omitempty"`
}

type inboundMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	Filename string `json:"filename,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Message is the flat, normalized shape handed to the conversation engine:
// one per inbound message unit.
type Message struct {
	From        string // sender identifier (phone number)
	MessageID   string // platform message id
	Timestamp   string // platform timestamp (unix seconds as string)
	Type        string // text | document | image | interactive | ...
	TextBody    string // message text, or the tapped reply's title
	ReplyID     string // tapped button/list reply id, when interactive
	MediaID     string // platform media id for media messages
	ContactName string // sender profile name from the contacts block
}

// Normalize flattens a webhook entry into one Message per inbound message
// unit, resolving contact names and collapsing the typed content variants
// into the fields the engine dispatches on.
func Normalize(entry WebhookEntry) []Message {
	var out []Message
	for _, change := range entry.Changes {
		if change.Field != "messages" {
			continue
		}
		names := make(map[string]string, len(change.Value.Contacts))
		for _, c := range change.Value.Contacts {
			names[c.WaID] = c.Profile.Name
		}
		for _, m := range change.Value.Messages {
			msg := Message{
				From:        m.From,
				MessageID:   m.ID,
				Timestamp:   m.Timestamp,
				Type:        m.Type,
				ContactName: names[m.From],
			}
			switch {
			case m.Text != nil:
				msg.TextBody = m.Text.Body
			case m.Interactive != nil && m.Interactive.ButtonReply != nil:
				msg.ReplyID = m.Interactive.ButtonReply.ID
				msg.TextBody = m.Interactive.ButtonReply.Title
			case m.Interactive != nil && m.Interactive.ListReply != nil:
				msg.ReplyID = m.Interactive.ListReply.ID
				msg.TextBody = m.Interactive.ListReply.Title
			case m.Document != nil:
				msg.MediaID = m.Document.ID
			case m.Image != nil:
				msg.MediaID = m.Image.ID
			case m.Video != nil:
				msg.MediaID = m.Video.ID
			case m.Audio != nil:
				msg.MediaID = m.Audio.ID
			}
			out = append(out, msg)
		}
	}
	return out
}
