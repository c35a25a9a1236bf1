package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// SessionRepo provides CRUD operations for care sessions and their intake
// forms. All timestamp fields are stored in UTC.
type SessionRepo struct{ db *sql.DB }

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = "id,user_id,type,status,completed_at,created_at,updated_at"

// Create inserts a new session and populates its generated ID. The type may
// be nil; the intake form sets it authoritatively later.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = model.SessionInProgress
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, type, status) VALUES (?,?,?,?)",
		s.ID, s.UserID, s.Type, s.Status)
	return err
}

// GetByID fetches a session by id.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (model.Session, error) {
	var s model.Session
	err := r.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.UserID, &s.Type, &s.Status, &s.CompletedAt, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Session{}, ErrNotFound
	}
	return s, err
}

// GetActiveByUser returns the most recent IN_PROGRESS session of a user, or
// ErrNotFound when the user has no ongoing session.
func (r *SessionRepo) GetActiveByUser(ctx context.Context, userID string) (model.Session, error) {
	var s model.Session
	err := r.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE user_id=? AND status=? ORDER BY created_at DESC LIMIT 1",
		userID, model.SessionInProgress).
		Scan(&s.ID, &s.UserID, &s.Type, &s.Status, &s.CompletedAt, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Session{}, ErrNotFound
	}
	return s, err
}

// SetStatus updates the lifecycle state of a session. completedAt is only
// non-nil on the COMPLETED transition.
func (r *SessionRepo) SetStatus(ctx context.Context, id string, status model.SessionStatus, completedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET status=?, completed_at=COALESCE(?, completed_at) WHERE id=?",
		status, completedAt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetType records the authoritative care type taken from the intake form.
func (r *SessionRepo) SetType(ctx context.Context, id string, careType model.CareType) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET type=? WHERE id=?", careType, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListActive returns all IN_PROGRESS sessions, newest first.
func (r *SessionRepo) ListActive(ctx context.Context) ([]model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE status=? ORDER BY created_at DESC",
		model.SessionInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Type, &s.Status, &s.CompletedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountByStatus returns the number of sessions per lifecycle state.
func (r *SessionRepo) CountByStatus(ctx context.Context) (map[model.SessionStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM sessions GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.SessionStatus]int)
	for rows.Next() {
		var s model.SessionStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

// CreateIntakeForm inserts the intake form for a session. The form is
// collected atomically by the conversation engine, so it is stored complete.
// A second form for the same session yields ErrDuplicate.
func (r *SessionRepo) CreateIntakeForm(ctx context.Context, f *model.IntakeForm) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.IsCompleted = true
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO intake_forms (id, session_id, user_id, name, age, state, type_of_care, contact_number, address, is_completed) VALUES (?,?,?,?,?,?,?,?,?,?)",
		f.ID, f.SessionID, f.UserID, f.Name, f.Age, f.State, f.TypeOfCare, f.ContactNumber, f.Address, f.IsCompleted)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetIntakeForm fetches the intake form belonging to a session.
func (r *SessionRepo) GetIntakeForm(ctx context.Context, sessionID string) (model.IntakeForm, error) {
	var f model.IntakeForm
	err := r.db.QueryRowContext(ctx,
		"SELECT id,session_id,user_id,name,age,state,type_of_care,contact_number,address,is_completed,created_at FROM intake_forms WHERE session_id=? LIMIT 1",
		sessionID).
		Scan(&f.ID, &f.SessionID, &f.UserID, &f.Name, &f.Age, &f.State, &f.TypeOfCare,
			&f.ContactNumber, &f.Address, &f.IsCompleted, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return model.IntakeForm{}, ErrNotFound
	}
	return f, err
}
