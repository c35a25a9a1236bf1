// Package service implements the domain logic of the intake chatbot: user
// review transitions, care-session workflows and appeals. Services depend on
// narrow store interfaces so the SQL repositories can be swapped for
// in-memory fakes in tests.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// UserStore is the persistence surface the services need for users.
// *repository.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByWhatsAppNumber(ctx context.Context, number string) (model.User, error)
	SetStatus(ctx context.Context, id string, status model.UserStatus, rejectionCount int, isBanned bool, adminNotes *string) error
	SetCounselor(ctx context.Context, id, counselorID string) error
	ListByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
	CountByStatus(ctx context.Context) (map[model.UserStatus]int, error)
}

// SessionStore is the persistence surface for care sessions and intake
// forms. *repository.SessionRepo satisfies it.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id string) (model.Session, error)
	GetActiveByUser(ctx context.Context, userID string) (model.Session, error)
	SetStatus(ctx context.Context, id string, status model.SessionStatus, completedAt *time.Time) error
	SetType(ctx context.Context, id string, careType model.CareType) error
	ListActive(ctx context.Context) ([]model.Session, error)
	CountByStatus(ctx context.Context) (map[model.SessionStatus]int, error)
	CreateIntakeForm(ctx context.Context, f *model.IntakeForm) error
	GetIntakeForm(ctx context.Context, sessionID string) (model.IntakeForm, error)
}

// ReminderStore is the persistence surface for session reminders.
// *repository.ReminderRepo satisfies it.
type ReminderStore interface {
	Create(ctx context.Context, r *model.Reminder) error
	ListPending(ctx context.Context, now time.Time) ([]model.Reminder, error)
	ListBySession(ctx context.Context, sessionID string) ([]model.Reminder, error)
	MarkSent(ctx context.Context, id string) error
}

// FeedbackStore is the persistence surface for feedback forms.
// *repository.FeedbackRepo satisfies it.
type FeedbackStore interface {
	Create(ctx context.Context, f *model.FeedbackForm) error
	GetBySession(ctx context.Context, sessionID string) (model.FeedbackForm, error)
	Complete(ctx context.Context, sessionID string, rating int, comment *string) error
}

// CounselorStore is the persistence surface for counselors.
// *repository.CounselorRepo satisfies it.
type CounselorStore interface {
	FirstActive(ctx context.Context) (model.Counselor, error)
}

// AppealStore is the persistence surface for appeals.
// *repository.AppealRepo satisfies it.
type AppealStore interface {
	Create(ctx context.Context, a *model.Appeal) error
	GetByID(ctx context.Context, id string) (model.Appeal, error)
	HasPending(ctx context.Context, userID string) (bool, error)
	SetStatus(ctx context.Context, id string, status model.AppealStatus, adminNotes *string) error
	ListByStatus(ctx context.Context, status model.AppealStatus) ([]model.Appeal, error)
	ListAll(ctx context.Context) ([]model.Appeal, error)
	CountByStatus(ctx context.Context) (map[model.AppealStatus]int, error)
}

// AdminStore is the persistence surface for admin accounts.
// *repository.AdminRepo satisfies it.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
}
