package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// FeedbackRepo provides operations for per-session feedback forms.
type FeedbackRepo struct{ db *sql.DB }

// NewFeedbackRepo returns a new FeedbackRepo bound to the given database.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Create inserts an empty feedback form for a session. A second form for
// the same session yields ErrDuplicate.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.FeedbackForm) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO feedback_forms (id, session_id) VALUES (?,?)",
		f.ID, f.SessionID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetBySession fetches the feedback form belonging to a session.
func (r *FeedbackRepo) GetBySession(ctx context.Context, sessionID string) (model.FeedbackForm, error) {
	var f model.FeedbackForm
	err := r.db.QueryRowContext(ctx,
		"SELECT id,session_id,rating,comment,is_completed,created_at,updated_at FROM feedback_forms WHERE session_id=? LIMIT 1",
		sessionID).
		Scan(&f.ID, &f.SessionID, &f.Rating, &f.Comment, &f.IsCompleted, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.FeedbackForm{}, ErrNotFound
	}
	return f, err
}

// Complete records the submitted rating and optional comment and marks the
// form completed. It targets the form by session, mirroring how the
// conversation flow addresses feedback.
func (r *FeedbackRepo) Complete(ctx context.Context, sessionID string, rating int, comment *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE feedback_forms SET rating=?, comment=?, is_completed=1 WHERE session_id=?",
		rating, comment, sessionID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
