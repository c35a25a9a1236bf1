// Package bot implements the conversation engine: a per-sender state machine
// that drives registration, intake, appeal, feedback and medical report
// flows over the messaging gateway.
package bot

import "context"

// Phase identifies where a sender currently is in the conversation.
type Phase string

const (
	PhaseGreeting              Phase = "INITIAL_GREETING"
	PhaseSignup                Phase = "NEW_USER_SIGNUP"
	PhasePendingApproval       Phase = "PENDING_APPROVAL"
	PhaseIntakeForm            Phase = "INTAKE_FORM"
	PhaseIntakeCompleted       Phase = "INTAKE_COMPLETED"
	PhaseAppealForm            Phase = "APPEAL_FORM"
	PhaseAppealSubmitted       Phase = "APPEAL_SUBMITTED"
	PhaseFeedbackForm          Phase = "FEEDBACK_FORM"
	PhaseFeedbackCompleted     Phase = "FEEDBACK_COMPLETED"
	PhaseMedicalReportRequest  Phase = "MEDICAL_REPORT_REQUEST"
	PhaseMedicalReportReceived Phase = "MEDICAL_REPORT_RECEIVED"
)

// SignupData accumulates answers during the registration flow.
type SignupData struct {
	Step     int    `json:"step"`
	FullName string `json:"full_name,omitempty"`
	Age      int    `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// IntakeData accumulates answers during the intake form flow.
type IntakeData struct {
	Step          int    `json:"step"`
	Name          string `json:"name,omitempty"`
	Age           int    `json:"age,omitempty"`
	State         string `json:"state,omitempty"`
	CareType      string `json:"care_type,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	Address       string `json:"address,omitempty"`
}

// FeedbackData accumulates answers during the feedback flow.
type FeedbackData struct {
	Step      int    `json:"step"`
	SessionID string `json:"session_id,omitempty"`
	Rating    int    `json:"rating,omitempty"`
}

// State is the full conversation state of one sender. It is JSON
// serializable so it can live in Redis as well as in memory.
type State struct {
	Phase    Phase        `json:"phase"`
	UserID   string       `json:"user_id,omitempty"`
	Signup   SignupData   `json:"signup"`
	Intake   IntakeData   `json:"intake"`
	Feedback FeedbackData `json:"feedback"`
}

// newState is the state every unknown sender starts from.
func newState() State {
	return State{Phase: PhaseGreeting}
}

// StateStore persists conversation state keyed by sender number.
type StateStore interface {
	// Get returns the stored state and whether one existed.
	Get(ctx context.Context, sender string) (State, bool, error)
	Put(ctx context.Context, sender string, st State) error
	Delete(ctx context.Context, sender string) error
}
