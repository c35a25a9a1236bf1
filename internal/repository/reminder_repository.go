package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// ReminderRepo provides operations for session reminders. Reminders are
// created by the care workflows and consumed by an external dispatcher or
// the admin API.
type ReminderRepo struct{ db *sql.DB }

// NewReminderRepo returns a new ReminderRepo bound to the given database.
func NewReminderRepo(db *sql.DB) *ReminderRepo { return &ReminderRepo{db: db} }

// Create inserts a new reminder and populates its generated ID.
func (r *ReminderRepo) Create(ctx context.Context, rem *model.Reminder) error {
	if rem.ID == "" {
		rem.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO reminders (id, session_id, type, due_date, is_sent) VALUES (?,?,?,?,?)",
		rem.ID, rem.SessionID, rem.Type, rem.DueDate.UTC(), rem.IsSent)
	return err
}

// ListPending returns unsent reminders whose due date has passed, soonest
// first.
func (r *ReminderRepo) ListPending(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,session_id,type,due_date,is_sent,created_at FROM reminders WHERE is_sent=0 AND due_date<=? ORDER BY due_date ASC",
		now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reminder
	for rows.Next() {
		var rem model.Reminder
		if err := rows.Scan(&rem.ID, &rem.SessionID, &rem.Type, &rem.DueDate, &rem.IsSent, &rem.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

// ListBySession returns all reminders attached to a session.
func (r *ReminderRepo) ListBySession(ctx context.Context, sessionID string) ([]model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,session_id,type,due_date,is_sent,created_at FROM reminders WHERE session_id=? ORDER BY due_date ASC",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reminder
	for rows.Next() {
		var rem model.Reminder
		if err := rows.Scan(&rem.ID, &rem.SessionID, &rem.Type, &rem.DueDate, &rem.IsSent, &rem.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

// MarkSent flips the is_sent flag of a reminder.
func (r *ReminderRepo) MarkSent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE reminders SET is_sent=1 WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
