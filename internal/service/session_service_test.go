package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

type sessionFixture struct {
	svc        *SessionService
	users      *fakeUserStore
	sessions   *fakeSessionStore
	reminders  *fakeReminderStore
	feedback   *fakeFeedbackStore
	counselors *fakeCounselorStore
	now        time.Time
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		users:      newFakeUserStore(),
		sessions:   newFakeSessionStore(),
		reminders:  &fakeReminderStore{},
		feedback:   newFakeFeedbackStore(),
		counselors: &fakeCounselorStore{},
		now:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewSessionService(f.sessions, f.reminders, f.feedback, f.counselors, f.users, testLogger())
	f.svc.now = func() time.Time { return f.now }
	return f
}

// submitIntake creates a user, a session and a completed intake form of the
// given care type, then runs the workflow.
func (f *sessionFixture) submitIntake(t *testing.T, careType model.CareType) model.Session {
	t.Helper()
	ctx := context.Background()

	u := model.User{WhatsAppNumber: "15550001111", Status: model.UserAccepted}
	if err := f.users.Create(ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	sess, err := f.svc.Create(ctx, u.ID, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.SubmitIntakeForm(ctx, CreateIntakeForm{
		SessionID:     sess.ID,
		UserID:        u.ID,
		Name:          "Jane Doe",
		Age:           34,
		State:         "Lagos",
		TypeOfCare:    careType,
		ContactNumber: "15550001111",
		Address:       "12 Hospital Road",
	}); err != nil {
		t.Fatalf("SubmitIntakeForm: %v", err)
	}
	if err := f.svc.ProcessIntakeForm(ctx, sess.ID); err != nil {
		t.Fatalf("ProcessIntakeForm: %v", err)
	}
	return sess
}

func TestIntakeFormSetsSessionType(t *testing.T) {
	f := newSessionFixture(t)
	sess := f.submitIntake(t, model.CareSurgical)

	got, err := f.svc.FindByID(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Type == nil || *got.Type != model.CareSurgical {
		t.Fatalf("session type = %v, want SURGICAL", got.Type)
	}
}

func TestMedicationWorkflowSchedulesTwoReminders(t *testing.T) {
	f := newSessionFixture(t)
	f.counselors.counselor = &model.Counselor{ID: "counselor-1", Name: "Sam", IsActive: true}

	sess := f.submitIntake(t, model.CareMedication)

	rs, err := f.reminders.ListBySession(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("got %d reminders, want 2", len(rs))
	}
	byType := map[model.ReminderType]model.Reminder{}
	for _, r := range rs {
		byType[r.Type] = r
	}
	followup, ok := byType[model.ReminderCounselorFollowup]
	if !ok {
		t.Fatal("missing COUNSELOR_FOLLOWUP reminder")
	}
	if want := f.now.Add(14 * 24 * time.Hour); !followup.DueDate.Equal(want) {
		t.Fatalf("followup due %v, want %v", followup.DueDate, want)
	}
	request, ok := byType[model.ReminderFeedbackRequest]
	if !ok {
		t.Fatal("missing FEEDBACK_REQUEST reminder")
	}
	if want := f.now.Add(7 * 24 * time.Hour); !request.DueDate.Equal(want) {
		t.Fatalf("feedback request due %v, want %v", request.DueDate, want)
	}

	u, err := f.users.GetByID(context.Background(), sess.UserID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.CounselorID == nil || *u.CounselorID != "counselor-1" {
		t.Fatalf("counselor = %v, want counselor-1", u.CounselorID)
	}
}

func TestMedicationWorkflowWithoutCounselor(t *testing.T) {
	f := newSessionFixture(t)
	// No active counselor configured; the workflow still schedules both
	// reminders and leaves the user unassigned.
	sess := f.submitIntake(t, model.CareMedication)

	rs, _ := f.reminders.ListBySession(context.Background(), sess.ID)
	if len(rs) != 2 {
		t.Fatalf("got %d reminders, want 2", len(rs))
	}
	u, _ := f.users.GetByID(context.Background(), sess.UserID)
	if u.CounselorID != nil {
		t.Fatalf("counselor = %v, want nil", u.CounselorID)
	}
}

func TestSurgicalWorkflowSchedulesReportReminder(t *testing.T) {
	f := newSessionFixture(t)
	sess := f.submitIntake(t, model.CareSurgical)

	rs, _ := f.reminders.ListBySession(context.Background(), sess.ID)
	if len(rs) != 1 {
		t.Fatalf("got %d reminders, want 1", len(rs))
	}
	if rs[0].Type != model.ReminderMedicalReport {
		t.Fatalf("reminder type = %s, want MEDICAL_REPORT_REQUEST", rs[0].Type)
	}
	if want := f.now.Add(3 * 24 * time.Hour); !rs[0].DueDate.Equal(want) {
		t.Fatalf("due %v, want %v", rs[0].DueDate, want)
	}
}

func TestCompleteStampsCompletionTime(t *testing.T) {
	f := newSessionFixture(t)
	sess := f.submitIntake(t, model.CareMedication)

	got, err := f.svc.UpdateStatus(context.Background(), sess.ID, model.SessionCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != model.SessionCompleted {
		t.Fatalf("status = %s, want COMPLETED", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(f.now) {
		t.Fatalf("completed_at = %v, want %v", got.CompletedAt, f.now)
	}
}

func TestDuplicateFeedbackFormRejected(t *testing.T) {
	f := newSessionFixture(t)
	sess := f.submitIntake(t, model.CareMedication)
	ctx := context.Background()

	if _, err := f.svc.CreateFeedbackForm(ctx, sess.ID); err != nil {
		t.Fatalf("CreateFeedbackForm: %v", err)
	}
	if _, err := f.svc.CreateFeedbackForm(ctx, sess.ID); !errors.Is(err, ErrFeedbackExists) {
		t.Fatalf("err = %v, want ErrFeedbackExists", err)
	}
}

func TestSubmitFeedbackCreatesMissingForm(t *testing.T) {
	f := newSessionFixture(t)
	sess := f.submitIntake(t, model.CareMedication)
	ctx := context.Background()

	comment := "very helpful"
	if err := f.svc.SubmitFeedback(ctx, sess.ID, 4, &comment); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}

	form, err := f.feedback.GetBySession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if form.Rating == nil || *form.Rating != 4 {
		t.Fatalf("rating = %v, want 4", form.Rating)
	}
	if form.Comment == nil || *form.Comment != comment {
		t.Fatalf("comment = %v, want %q", form.Comment, comment)
	}
	if !form.IsCompleted {
		t.Fatal("form not marked completed")
	}
}

func TestPendingRemindersRespectDueDate(t *testing.T) {
	f := newSessionFixture(t)
	sess := f.submitIntake(t, model.CareSurgical)
	ctx := context.Background()

	pending, err := f.svc.PendingReminders(ctx)
	if err != nil {
		t.Fatalf("PendingReminders: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("got %d pending before due date, want 0", len(pending))
	}

	f.now = f.now.Add(4 * 24 * time.Hour)
	pending, err = f.svc.PendingReminders(ctx)
	if err != nil {
		t.Fatalf("PendingReminders: %v", err)
	}
	if len(pending) != 1 || pending[0].SessionID != sess.ID {
		t.Fatalf("pending = %+v, want the session's report reminder", pending)
	}

	if err := f.svc.MarkReminderSent(ctx, pending[0].ID); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}
	pending, _ = f.svc.PendingReminders(ctx)
	if len(pending) != 0 {
		t.Fatalf("got %d pending after mark-sent, want 0", len(pending))
	}
}
