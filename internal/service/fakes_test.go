package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/repository"
)

// In-memory store fakes backing the service tests. They mirror the
// repository semantics the services rely on: sentinel errors, insertion
// order, duplicate detection.

type fakeUserStore struct {
	seq   int
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, ex := range f.users {
		if ex.WhatsAppNumber == u.WhatsAppNumber {
			return repository.ErrDuplicate
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.CreatedAt = time.Now()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByWhatsAppNumber(_ context.Context, number string) (model.User, error) {
	for _, u := range f.users {
		if u.WhatsAppNumber == number {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) SetStatus(_ context.Context, id string, status model.UserStatus, rejectionCount int, isBanned bool, adminNotes *string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	u.RejectionCount = rejectionCount
	u.IsBanned = isBanned
	if adminNotes != nil {
		u.AdminNotes = adminNotes
	}
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) SetCounselor(_ context.Context, id, counselorID string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.CounselorID = &counselorID
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) ListByStatus(_ context.Context, status model.UserStatus) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Status == status {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) CountByStatus(_ context.Context) (map[model.UserStatus]int, error) {
	counts := make(map[model.UserStatus]int)
	for _, u := range f.users {
		counts[u.Status]++
	}
	return counts, nil
}

type fakeSessionStore struct {
	seq      int
	sessions map[string]model.Session
	forms    map[string]model.IntakeForm // keyed by session id
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]model.Session),
		forms:    make(map[string]model.IntakeForm),
	}
}

func (f *fakeSessionStore) Create(_ context.Context, s *model.Session) error {
	f.seq++
	s.ID = fmt.Sprintf("session-%d", f.seq)
	s.CreatedAt = time.Now()
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id string) (model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return model.Session{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) GetActiveByUser(_ context.Context, userID string) (model.Session, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == model.SessionInProgress {
			return s, nil
		}
	}
	return model.Session{}, repository.ErrNotFound
}

func (f *fakeSessionStore) SetStatus(_ context.Context, id string, status model.SessionStatus, completedAt *time.Time) error {
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	if completedAt != nil {
		s.CompletedAt = completedAt
	}
	f.sessions[id] = s
	return nil
}

func (f *fakeSessionStore) SetType(_ context.Context, id string, careType model.CareType) error {
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Type = &careType
	f.sessions[id] = s
	return nil
}

func (f *fakeSessionStore) ListActive(_ context.Context) ([]model.Session, error) {
	var out []model.Session
	for _, s := range f.sessions {
		if s.Status == model.SessionInProgress {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) CountByStatus(_ context.Context) (map[model.SessionStatus]int, error) {
	counts := make(map[model.SessionStatus]int)
	for _, s := range f.sessions {
		counts[s.Status]++
	}
	return counts, nil
}

func (f *fakeSessionStore) CreateIntakeForm(_ context.Context, form *model.IntakeForm) error {
	if _, ok := f.forms[form.SessionID]; ok {
		return repository.ErrDuplicate
	}
	form.ID = "form-" + form.SessionID
	form.IsCompleted = true
	f.forms[form.SessionID] = *form
	return nil
}

func (f *fakeSessionStore) GetIntakeForm(_ context.Context, sessionID string) (model.IntakeForm, error) {
	form, ok := f.forms[sessionID]
	if !ok {
		return model.IntakeForm{}, repository.ErrNotFound
	}
	return form, nil
}

type fakeReminderStore struct {
	seq       int
	reminders []model.Reminder
}

func (f *fakeReminderStore) Create(_ context.Context, r *model.Reminder) error {
	f.seq++
	r.ID = fmt.Sprintf("reminder-%d", f.seq)
	f.reminders = append(f.reminders, *r)
	return nil
}

func (f *fakeReminderStore) ListPending(_ context.Context, now time.Time) ([]model.Reminder, error) {
	var out []model.Reminder
	for _, r := range f.reminders {
		if !r.IsSent && !r.DueDate.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) ListBySession(_ context.Context, sessionID string) ([]model.Reminder, error) {
	var out []model.Reminder
	for _, r := range f.reminders {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) MarkSent(_ context.Context, id string) error {
	for i, r := range f.reminders {
		if r.ID == id {
			f.reminders[i].IsSent = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeFeedbackStore struct {
	forms map[string]model.FeedbackForm // keyed by session id
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{forms: make(map[string]model.FeedbackForm)}
}

func (f *fakeFeedbackStore) Create(_ context.Context, form *model.FeedbackForm) error {
	if _, ok := f.forms[form.SessionID]; ok {
		return repository.ErrDuplicate
	}
	form.ID = "feedback-" + form.SessionID
	f.forms[form.SessionID] = *form
	return nil
}

func (f *fakeFeedbackStore) GetBySession(_ context.Context, sessionID string) (model.FeedbackForm, error) {
	form, ok := f.forms[sessionID]
	if !ok {
		return model.FeedbackForm{}, repository.ErrNotFound
	}
	return form, nil
}

func (f *fakeFeedbackStore) Complete(_ context.Context, sessionID string, rating int, comment *string) error {
	form, ok := f.forms[sessionID]
	if !ok {
		return repository.ErrNotFound
	}
	form.Rating = &rating
	form.Comment = comment
	form.IsCompleted = true
	f.forms[sessionID] = form
	return nil
}

type fakeCounselorStore struct {
	counselor *model.Counselor
}

func (f *fakeCounselorStore) FirstActive(_ context.Context) (model.Counselor, error) {
	if f.counselor == nil {
		return model.Counselor{}, repository.ErrNotFound
	}
	return *f.counselor, nil
}

type fakeAppealStore struct {
	seq     int
	appeals map[string]model.Appeal
}

func newFakeAppealStore() *fakeAppealStore {
	return &fakeAppealStore{appeals: make(map[string]model.Appeal)}
}

func (f *fakeAppealStore) Create(_ context.Context, a *model.Appeal) error {
	f.seq++
	a.ID = fmt.Sprintf("appeal-%d", f.seq)
	a.CreatedAt = time.Now()
	f.appeals[a.ID] = *a
	return nil
}

func (f *fakeAppealStore) GetByID(_ context.Context, id string) (model.Appeal, error) {
	a, ok := f.appeals[id]
	if !ok {
		return model.Appeal{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAppealStore) HasPending(_ context.Context, userID string) (bool, error) {
	for _, a := range f.appeals {
		if a.UserID == userID && a.Status == model.AppealPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppealStore) SetStatus(_ context.Context, id string, status model.AppealStatus, adminNotes *string) error {
	a, ok := f.appeals[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	if adminNotes != nil {
		a.AdminNotes = adminNotes
	}
	f.appeals[id] = a
	return nil
}

func (f *fakeAppealStore) ListByStatus(_ context.Context, status model.AppealStatus) ([]model.Appeal, error) {
	var out []model.Appeal
	for _, a := range f.appeals {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppealStore) ListAll(_ context.Context) ([]model.Appeal, error) {
	var out []model.Appeal
	for _, a := range f.appeals {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppealStore) CountByStatus(_ context.Context) (map[model.AppealStatus]int, error) {
	counts := make(map[model.AppealStatus]int)
	for _, a := range f.appeals {
		counts[a.Status]++
	}
	return counts, nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
