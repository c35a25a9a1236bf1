package model

import (
    "strings"
    "time"
)

// CareType enumerates the kinds of care a session can provide.  The value
// chosen in the intake form is authoritative and overwrites any provisional
// type set when the session was created.
type CareType string

// Care types collected by the intake form.
const (
    CareMedication CareType = "MEDICATION"
    CareSurgical   CareType = "SURGICAL"
)

// SessionStatus enumerates the lifecycle states of a care session.
type SessionStatus string

// Session lifecycle states.
const (
    SessionInProgress SessionStatus = "IN_PROGRESS"
    SessionCompleted  SessionStatus = "COMPLETED"
    SessionCancelled  SessionStatus = "CANCELLED"
    SessionEscalated  SessionStatus = "ESCALATED"
)

// Session represents one care episode for a user, mirroring the `sessions`
// table.  A session is created when an accepted user without an ongoing
// session starts intake, and carries the intake form, reminders and an
// optional feedback form.
//
// Fields:
//  ID          – primary key identifier (UUID).
//  UserID      – owner of the session.
//  Type        – care type; nullable until the intake form completes.
//  Status      – lifecycle state (IN_PROGRESS, COMPLETED, CANCELLED, ESCALATED).
//  CompletedAt – set only on the COMPLETED transition.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Session struct {
    ID          string        `json:"id"`           // sessions.id
    UserID      string        `json:"user_id"`      // sessions.user_id
    Type        *CareType     `json:"type"`         // sessions.type (nullable)
    Status      SessionStatus `json:"status"`       // sessions.status
    CompletedAt *time.Time    `json:"completed_at"` // sessions.completed_at (nullable)
    CreatedAt   time.Time     `json:"created_at"`   // sessions.created_at
    UpdatedAt   time.Time     `json:"updated_at"`   // sessions.updated_at
}

// IntakeForm captures the structured data collected once a user is accepted
// and begins a care session.  The form is collected atomically by the
// conversation engine, so IsCompleted is set at creation.
//
// Fields mirror the `intake_forms` table; SessionID is unique (1:1 with the
// session).
type IntakeForm struct {
    ID            string    `json:"id"`             // intake_forms.id
    SessionID     string    `json:"session_id"`     // intake_forms.session_id (unique)
    UserID        string    `json:"user_id"`        // intake_forms.user_id
    Name          string    `json:"name"`           // intake_forms.name
    Age           int       `json:"age"`            // intake_forms.age
    State         string    `json:"state"`          // intake_forms.state
    TypeOfCare    CareType  `json:"type_of_care"`   // intake_forms.type_of_care
    ContactNumber string    `json:"contact_number"` // intake_forms.contact_number
    Address       string    `json:"address"`        // intake_forms.address
    IsCompleted   bool      `json:"is_completed"`   // intake_forms.is_completed
    CreatedAt     time.Time `json:"created_at"`     // intake_forms.created_at
}

// ReminderType enumerates the scheduled follow-up actions tied to a session.
type ReminderType string

// Reminder kinds produced by the care workflows.
const (
    ReminderCounselorFollowup ReminderType = "COUNSELOR_FOLLOWUP"
    ReminderFeedbackRequest   ReminderType = "FEEDBACK_REQUEST"
    ReminderMedicalReport     ReminderType = "MEDICAL_REPORT_REQUEST"
)

// Reminder is a scheduled follow-up action tied to a session, consumed by an
// external dispatcher or marked sent through the admin API.
type Reminder struct {
    ID        string       `json:"id"`         // reminders.id
    SessionID string       `json:"session_id"` // reminders.session_id
    Type      ReminderType `json:"type"`       // reminders.type
    DueDate   time.Time    `json:"due_date"`   // reminders.due_date
    IsSent    bool         `json:"is_sent"`    // reminders.is_sent
    CreatedAt time.Time    `json:"created_at"` // reminders.created_at
}

// FeedbackForm records a session rating collected through the feedback flow.
// Rating and Comment stay null until the user completes the flow.
type FeedbackForm struct {
    ID          string    `json:"id"`           // feedback_forms.id
    SessionID   string    `json:"session_id"`   // feedback_forms.session_id (unique)
    Rating      *int      `json:"rating"`       // feedback_forms.rating (nullable, 1–5)
    Comment     *string   `json:"comment"`      // feedback_forms.comment (nullable)
    IsCompleted bool      `json:"is_completed"` // feedback_forms.is_completed
    CreatedAt   time.Time `json:"created_at"`   // feedback_forms.created_at
    UpdatedAt   time.Time `json:"updated_at"`   // feedback_forms.updated_at
}

// ParseCareType maps conversational input onto a CareType.  Accepted inputs
// are the option number from the button prompt ("1", "2") or the option word
// in any case.  The boolean reports whether the input matched an option.
func ParseCareType(text string) (CareType, bool) {
    switch normalizeOption(text) {
    case "1", "medication":
        return CareMedication, true
    case "2", "surgical":
        return CareSurgical, true
    }
    return "", false
}

// ValidSessionStatus reports whether s is one of the recognised session states.
func ValidSessionStatus(s SessionStatus) bool {
    switch s {
    case SessionInProgress, SessionCompleted, SessionCancelled, SessionEscalated:
        return true
    }
    return false
}

// normalizeOption lowercases and trims conversational input before matching
// it against button option ids and numbers.
func normalizeOption(text string) string {
    return strings.ToLower(strings.TrimSpace(text))
}
