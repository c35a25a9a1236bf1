package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/queue"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/repository"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/whatsapp"
)

// fakeSender records every outbound message so tests can assert on the
// conversation transcript.
type fakeSender struct {
	mu    sync.Mutex
	texts []string
	btns  []string // button prompt bodies
}

func (f *fakeSender) SendText(_ context.Context, _, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, body)
	return "wamid.test", nil
}

func (f *fakeSender) SendButtons(_ context.Context, _, body string, _ []whatsapp.Button) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.btns = append(f.btns, body)
	return "wamid.test", nil
}

func (f *fakeSender) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

func (f *fakeSender) lastButtons() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.btns) == 0 {
		return ""
	}
	return f.btns[len(f.btns)-1]
}

// fakePublisher records published events.
type fakePublisher struct {
	events []queue.Event
}

func (f *fakePublisher) Publish(_ context.Context, ev queue.Event) error {
	f.events = append(f.events, ev)
	return nil
}

// In-memory store fakes satisfying the service store interfaces.

type userStore struct {
	seq   int
	users map[string]model.User
}

func newUserStore() *userStore { return &userStore{users: make(map[string]model.User)} }

func (s *userStore) Create(_ context.Context, u *model.User) error {
	for _, ex := range s.users {
		if ex.WhatsAppNumber == u.WhatsAppNumber {
			return repository.ErrDuplicate
		}
	}
	s.seq++
	u.ID = fmt.Sprintf("user-%d", s.seq)
	s.users[u.ID] = *u
	return nil
}

func (s *userStore) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *userStore) GetByWhatsAppNumber(_ context.Context, number string) (model.User, error) {
	for _, u := range s.users {
		if u.WhatsAppNumber == number {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *userStore) SetStatus(_ context.Context, id string, status model.UserStatus, rejectionCount int, isBanned bool, adminNotes *string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	u.RejectionCount = rejectionCount
	u.IsBanned = isBanned
	if adminNotes != nil {
		u.AdminNotes = adminNotes
	}
	s.users[id] = u
	return nil
}

func (s *userStore) SetCounselor(_ context.Context, id, counselorID string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.CounselorID = &counselorID
	s.users[id] = u
	return nil
}

func (s *userStore) ListByStatus(_ context.Context, status model.UserStatus) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.Status == status {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *userStore) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *userStore) CountByStatus(_ context.Context) (map[model.UserStatus]int, error) {
	counts := make(map[model.UserStatus]int)
	for _, u := range s.users {
		counts[u.Status]++
	}
	return counts, nil
}

type sessionStore struct {
	seq      int
	sessions map[string]model.Session
	forms    map[string]model.IntakeForm
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]model.Session),
		forms:    make(map[string]model.IntakeForm),
	}
}

func (s *sessionStore) Create(_ context.Context, sess *model.Session) error {
	s.seq++
	sess.ID = fmt.Sprintf("session-%d", s.seq)
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *sessionStore) GetByID(_ context.Context, id string) (model.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return model.Session{}, repository.ErrNotFound
	}
	return sess, nil
}

func (s *sessionStore) GetActiveByUser(_ context.Context, userID string) (model.Session, error) {
	for _, sess := range s.sessions {
		if sess.UserID == userID && sess.Status == model.SessionInProgress {
			return sess, nil
		}
	}
	return model.Session{}, repository.ErrNotFound
}

func (s *sessionStore) SetStatus(_ context.Context, id string, status model.SessionStatus, completedAt *time.Time) error {
	sess, ok := s.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	sess.Status = status
	if completedAt != nil {
		sess.CompletedAt = completedAt
	}
	s.sessions[id] = sess
	return nil
}

func (s *sessionStore) SetType(_ context.Context, id string, careType model.CareType) error {
	sess, ok := s.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	sess.Type = &careType
	s.sessions[id] = sess
	return nil
}

func (s *sessionStore) ListActive(_ context.Context) ([]model.Session, error) {
	var out []model.Session
	for _, sess := range s.sessions {
		if sess.Status == model.SessionInProgress {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *sessionStore) CountByStatus(_ context.Context) (map[model.SessionStatus]int, error) {
	counts := make(map[model.SessionStatus]int)
	for _, sess := range s.sessions {
		counts[sess.Status]++
	}
	return counts, nil
}

func (s *sessionStore) CreateIntakeForm(_ context.Context, f *model.IntakeForm) error {
	if _, ok := s.forms[f.SessionID]; ok {
		return repository.ErrDuplicate
	}
	f.ID = "form-" + f.SessionID
	f.IsCompleted = true
	s.forms[f.SessionID] = *f
	return nil
}

func (s *sessionStore) GetIntakeForm(_ context.Context, sessionID string) (model.IntakeForm, error) {
	f, ok := s.forms[sessionID]
	if !ok {
		return model.IntakeForm{}, repository.ErrNotFound
	}
	return f, nil
}

type reminderStore struct {
	seq       int
	reminders []model.Reminder
}

func (s *reminderStore) Create(_ context.Context, r *model.Reminder) error {
	s.seq++
	r.ID = fmt.Sprintf("reminder-%d", s.seq)
	s.reminders = append(s.reminders, *r)
	return nil
}

func (s *reminderStore) ListPending(_ context.Context, now time.Time) ([]model.Reminder, error) {
	var out []model.Reminder
	for _, r := range s.reminders {
		if !r.IsSent && !r.DueDate.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reminderStore) ListBySession(_ context.Context, sessionID string) ([]model.Reminder, error) {
	var out []model.Reminder
	for _, r := range s.reminders {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reminderStore) MarkSent(_ context.Context, id string) error {
	for i, r := range s.reminders {
		if r.ID == id {
			s.reminders[i].IsSent = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type feedbackStore struct {
	forms map[string]model.FeedbackForm
}

func newFeedbackStore() *feedbackStore {
	return &feedbackStore{forms: make(map[string]model.FeedbackForm)}
}

func (s *feedbackStore) Create(_ context.Context, f *model.FeedbackForm) error {
	if _, ok := s.forms[f.SessionID]; ok {
		return repository.ErrDuplicate
	}
	f.ID = "feedback-" + f.SessionID
	s.forms[f.SessionID] = *f
	return nil
}

func (s *feedbackStore) GetBySession(_ context.Context, sessionID string) (model.FeedbackForm, error) {
	f, ok := s.forms[sessionID]
	if !ok {
		return model.FeedbackForm{}, repository.ErrNotFound
	}
	return f, nil
}

func (s *feedbackStore) Complete(_ context.Context, sessionID string, rating int, comment *string) error {
	f, ok := s.forms[sessionID]
	if !ok {
		return repository.ErrNotFound
	}
	f.Rating = &rating
	f.Comment = comment
	f.IsCompleted = true
	s.forms[sessionID] = f
	return nil
}

type counselorStore struct {
	counselor *model.Counselor
}

func (s *counselorStore) FirstActive(_ context.Context) (model.Counselor, error) {
	if s.counselor == nil {
		return model.Counselor{}, repository.ErrNotFound
	}
	return *s.counselor, nil
}

type appealStore struct {
	seq     int
	appeals map[string]model.Appeal
}

func newAppealStore() *appealStore { return &appealStore{appeals: make(map[string]model.Appeal)} }

func (s *appealStore) Create(_ context.Context, a *model.Appeal) error {
	s.seq++
	a.ID = fmt.Sprintf("appeal-%d", s.seq)
	s.appeals[a.ID] = *a
	return nil
}

func (s *appealStore) GetByID(_ context.Context, id string) (model.Appeal, error) {
	a, ok := s.appeals[id]
	if !ok {
		return model.Appeal{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *appealStore) HasPending(_ context.Context, userID string) (bool, error) {
	for _, a := range s.appeals {
		if a.UserID == userID && a.Status == model.AppealPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *appealStore) SetStatus(_ context.Context, id string, status model.AppealStatus, adminNotes *string) error {
	a, ok := s.appeals[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	if adminNotes != nil {
		a.AdminNotes = adminNotes
	}
	s.appeals[id] = a
	return nil
}

func (s *appealStore) ListByStatus(_ context.Context, status model.AppealStatus) ([]model.Appeal, error) {
	var out []model.Appeal
	for _, a := range s.appeals {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *appealStore) ListAll(_ context.Context) ([]model.Appeal, error) {
	var out []model.Appeal
	for _, a := range s.appeals {
		out = append(out, a)
	}
	return out, nil
}

func (s *appealStore) CountByStatus(_ context.Context) (map[model.AppealStatus]int, error) {
	counts := make(map[model.AppealStatus]int)
	for _, a := range s.appeals {
		counts[a.Status]++
	}
	return counts, nil
}
