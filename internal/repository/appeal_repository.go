package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// AppealRepo provides CRUD operations for user appeals.
type AppealRepo struct{ db *sql.DB }

// NewAppealRepo returns a new AppealRepo bound to the given database.
func NewAppealRepo(db *sql.DB) *AppealRepo { return &AppealRepo{db: db} }

const appealColumns = "id,user_id,reason,status,admin_notes,created_at,updated_at"

// Create inserts a new appeal and populates its generated ID. The
// one-pending-appeal-per-user rule is enforced in the service layer, not
// here.
func (r *AppealRepo) Create(ctx context.Context, a *model.Appeal) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = model.AppealPending
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO appeals (id, user_id, reason, status) VALUES (?,?,?,?)",
		a.ID, a.UserID, a.Reason, a.Status)
	return err
}

// GetByID fetches an appeal by id.
func (r *AppealRepo) GetByID(ctx context.Context, id string) (model.Appeal, error) {
	var a model.Appeal
	err := r.db.QueryRowContext(ctx,
		"SELECT "+appealColumns+" FROM appeals WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.UserID, &a.Reason, &a.Status, &a.AdminNotes, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Appeal{}, ErrNotFound
	}
	return a, err
}

// HasPending reports whether the user currently holds a PENDING appeal.
func (r *AppealRepo) HasPending(ctx context.Context, userID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM appeals WHERE user_id=? AND status=?",
		userID, model.AppealPending).Scan(&n)
	return n > 0, err
}

// SetStatus updates the review state of an appeal.
func (r *AppealRepo) SetStatus(ctx context.Context, id string, status model.AppealStatus, adminNotes *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE appeals SET status=?, admin_notes=COALESCE(?, admin_notes) WHERE id=?",
		status, adminNotes, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListByStatus returns appeals in the given state, oldest first so admins
// review in arrival order.
func (r *AppealRepo) ListByStatus(ctx context.Context, status model.AppealStatus) ([]model.Appeal, error) {
	return r.list(ctx, "SELECT "+appealColumns+" FROM appeals WHERE status=? ORDER BY created_at ASC", status)
}

// ListAll returns every appeal, newest first.
func (r *AppealRepo) ListAll(ctx context.Context) ([]model.Appeal, error) {
	return r.list(ctx, "SELECT "+appealColumns+" FROM appeals ORDER BY created_at DESC")
}

// CountByStatus returns the number of appeals per review state.
func (r *AppealRepo) CountByStatus(ctx context.Context) (map[model.AppealStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM appeals GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.AppealStatus]int)
	for rows.Next() {
		var s model.AppealStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

func (r *AppealRepo) list(ctx context.Context, query string, args ...any) ([]model.Appeal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Appeal
	for rows.Next() {
		var a model.Appeal
		if err := rows.Scan(&a.ID, &a.UserID, &a.Reason, &a.Status, &a.AdminNotes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
