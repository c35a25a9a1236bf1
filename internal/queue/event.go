// Package queue defines the domain events exchanged over the message broker
// and the background consumer that records them.
package queue

// Event types published on the intake.events queue.
const (
	EventUserRegistered    = "user.registered"
	EventIntakeCompleted   = "intake.completed"
	EventAppealSubmitted   = "appeal.submitted"
	EventFeedbackCompleted = "feedback.completed"
	EventReminderSent      = "reminder.sent"
)

// Event is published whenever something notable happens in a conversation.
// It carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type Event struct {
	Type           string `json:"type"`
	OccurredAt     string `json:"occurred_at"`
	UserID         string `json:"user_id,omitempty"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	AppealID       string `json:"appeal_id,omitempty"`
	ReminderID     string `json:"reminder_id,omitempty"`
	CareType       string `json:"care_type,omitempty"`
	Detail         string `json:"detail,omitempty"`
}
