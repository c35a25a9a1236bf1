package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/repository"
)

// Reminder offsets produced by the care workflows.
const (
	counselorFollowupAfter = 14 * 24 * time.Hour
	feedbackRequestAfter   = 7 * 24 * time.Hour
	medicalReportAfter     = 3 * 24 * time.Hour
)

// CreateIntakeForm carries the data collected by the intake flow. The form
// is collected atomically by the conversation engine before it reaches the
// service.
type CreateIntakeForm struct {
	SessionID     string
	UserID        string
	Name          string
	Age           int
	State         string
	TypeOfCare    model.CareType
	ContactNumber string
	Address       string
}

// SessionStats aggregates session counts per lifecycle state for the admin
// API.
type SessionStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Escalated int `json:"escalated"`
}

// SessionService owns care sessions: creation, intake forms, the care-type
// workflows that schedule reminders, and feedback collection.
type SessionService struct {
	sessions   SessionStore
	reminders  ReminderStore
	feedback   FeedbackStore
	counselors CounselorStore
	users      UserStore
	log        zerolog.Logger
	now        func() time.Time
}

// NewSessionService wires a SessionService.
func NewSessionService(sessions SessionStore, reminders ReminderStore, feedback FeedbackStore, counselors CounselorStore, users UserStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		sessions:   sessions,
		reminders:  reminders,
		feedback:   feedback,
		counselors: counselors,
		users:      users,
		log:        log,
		now:        time.Now,
	}
}

// Create opens a new IN_PROGRESS session for a user. The care type may be
// nil; the intake form sets it authoritatively.
func (s *SessionService) Create(ctx context.Context, userID string, careType *model.CareType) (model.Session, error) {
	sess := model.Session{UserID: userID, Type: careType, Status: model.SessionInProgress}
	if err := s.sessions.Create(ctx, &sess); err != nil {
		return model.Session{}, err
	}
	s.log.Info().Str("session_id", sess.ID).Str("user_id", userID).Msg("session created")
	return sess, nil
}

// FindByID fetches a session by id.
func (s *SessionService) FindByID(ctx context.Context, id string) (model.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

// UpdateStatus applies an admin lifecycle transition. The COMPLETED
// transition stamps the completion time.
func (s *SessionService) UpdateStatus(ctx context.Context, id string, status model.SessionStatus) (model.Session, error) {
	if !model.ValidSessionStatus(status) {
		return model.Session{}, ErrInvalidStatus
	}
	var completedAt *time.Time
	if status == model.SessionCompleted {
		t := s.now().UTC()
		completedAt = &t
	}
	if err := s.sessions.SetStatus(ctx, id, status, completedAt); err != nil {
		return model.Session{}, err
	}
	s.log.Info().Str("session_id", id).Str("status", string(status)).Msg("session status updated")
	return s.sessions.GetByID(ctx, id)
}

// SubmitIntakeForm persists the completed intake form, stamps the session
// with the authoritative care type, and returns the stored form.
func (s *SessionService) SubmitIntakeForm(ctx context.Context, in CreateIntakeForm) (model.IntakeForm, error) {
	f := model.IntakeForm{
		SessionID:     in.SessionID,
		UserID:        in.UserID,
		Name:          in.Name,
		Age:           in.Age,
		State:         in.State,
		TypeOfCare:    in.TypeOfCare,
		ContactNumber: in.ContactNumber,
		Address:       in.Address,
	}
	if err := s.sessions.CreateIntakeForm(ctx, &f); err != nil {
		return model.IntakeForm{}, err
	}
	// The intake-form value is the source of truth for the session type.
	if err := s.sessions.SetType(ctx, in.SessionID, in.TypeOfCare); err != nil {
		return model.IntakeForm{}, err
	}
	s.log.Info().Str("session_id", in.SessionID).Str("type_of_care", string(in.TypeOfCare)).Msg("intake form created")
	return f, nil
}

// ProcessIntakeForm runs the care-type workflow for a session whose intake
// form has been submitted. Medication care assigns the first active
// counselor and schedules follow-up and feedback reminders; surgical care
// schedules a medical-report reminder.
func (s *SessionService) ProcessIntakeForm(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	form, err := s.sessions.GetIntakeForm(ctx, sessionID)
	if err != nil {
		return err
	}
	switch form.TypeOfCare {
	case model.CareMedication:
		return s.medicationWorkflow(ctx, sess)
	case model.CareSurgical:
		return s.surgicalWorkflow(ctx, sess)
	}
	return nil
}

// medicationWorkflow assigns a counselor when one is active and schedules
// the 14-day counselor follow-up and 7-day feedback reminders.
func (s *SessionService) medicationWorkflow(ctx context.Context, sess model.Session) error {
	counselor, err := s.counselors.FirstActive(ctx)
	switch {
	case err == nil:
		if err := s.users.SetCounselor(ctx, sess.UserID, counselor.ID); err != nil {
			return err
		}
		s.log.Info().Str("user_id", sess.UserID).Str("counselor_id", counselor.ID).Msg("counselor assigned")
	case errors.Is(err, repository.ErrNotFound):
		// No active counselor; the session proceeds unassigned.
		s.log.Warn().Str("session_id", sess.ID).Msg("no active counselor available")
	default:
		return err
	}

	now := s.now().UTC()
	followup := model.Reminder{
		SessionID: sess.ID,
		Type:      model.ReminderCounselorFollowup,
		DueDate:   now.Add(counselorFollowupAfter),
	}
	if err := s.reminders.Create(ctx, &followup); err != nil {
		return err
	}
	feedback := model.Reminder{
		SessionID: sess.ID,
		Type:      model.ReminderFeedbackRequest,
		DueDate:   now.Add(feedbackRequestAfter),
	}
	if err := s.reminders.Create(ctx, &feedback); err != nil {
		return err
	}
	s.log.Info().Str("session_id", sess.ID).Msg("medication care workflow set up")
	return nil
}

// surgicalWorkflow schedules the 3-day medical-report reminder.
func (s *SessionService) surgicalWorkflow(ctx context.Context, sess model.Session) error {
	report := model.Reminder{
		SessionID: sess.ID,
		Type:      model.ReminderMedicalReport,
		DueDate:   s.now().UTC().Add(medicalReportAfter),
	}
	if err := s.reminders.Create(ctx, &report); err != nil {
		return err
	}
	s.log.Info().Str("session_id", sess.ID).Msg("surgical care workflow set up")
	return nil
}

// CreateFeedbackForm opens an empty feedback form for a session. A second
// form for the same session yields ErrFeedbackExists.
func (s *SessionService) CreateFeedbackForm(ctx context.Context, sessionID string) (model.FeedbackForm, error) {
	f := model.FeedbackForm{SessionID: sessionID}
	if err := s.feedback.Create(ctx, &f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.FeedbackForm{}, ErrFeedbackExists
		}
		return model.FeedbackForm{}, err
	}
	return f, nil
}

// SubmitFeedback records the rating and optional comment collected by the
// feedback flow. A missing form is created on the fly so the flow never
// loses a submission.
func (s *SessionService) SubmitFeedback(ctx context.Context, sessionID string, rating int, comment *string) error {
	err := s.feedback.Complete(ctx, sessionID, rating, comment)
	if errors.Is(err, repository.ErrNotFound) {
		f := model.FeedbackForm{SessionID: sessionID}
		if err := s.feedback.Create(ctx, &f); err != nil {
			return err
		}
		err = s.feedback.Complete(ctx, sessionID, rating, comment)
	}
	if err != nil {
		return err
	}
	s.log.Info().Str("session_id", sessionID).Int("rating", rating).Msg("feedback submitted")
	return nil
}

// PendingReminders returns unsent reminders whose due date has passed.
func (s *SessionService) PendingReminders(ctx context.Context) ([]model.Reminder, error) {
	return s.reminders.ListPending(ctx, s.now())
}

// MarkReminderSent flips a reminder's sent flag.
func (s *SessionService) MarkReminderSent(ctx context.Context, id string) error {
	return s.reminders.MarkSent(ctx, id)
}

// ListActive returns all IN_PROGRESS sessions.
func (s *SessionService) ListActive(ctx context.Context) ([]model.Session, error) {
	return s.sessions.ListActive(ctx)
}

// Stats aggregates session counts per lifecycle state.
func (s *SessionService) Stats(ctx context.Context) (SessionStats, error) {
	counts, err := s.sessions.CountByStatus(ctx)
	if err != nil {
		return SessionStats{}, err
	}
	st := SessionStats{
		Active:    counts[model.SessionInProgress],
		Completed: counts[model.SessionCompleted],
		Escalated: counts[model.SessionEscalated],
	}
	st.Total = st.Active + st.Completed + st.Escalated + counts[model.SessionCancelled]
	return st, nil
}
