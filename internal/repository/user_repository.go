package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// UserRepo provides CRUD operations for the users table.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id,whatsapp_number,full_name,age,gender,passport,status,rejection_count,is_banned,admin_notes,counselor_id,created_at,updated_at"

// Create inserts a new user and populates its generated ID. The WhatsApp
// number is normalized before insert; a duplicate number yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.WhatsAppNumber = strings.TrimSpace(u.WhatsAppNumber)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, whatsapp_number, full_name, age, gender, passport, status) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.WhatsAppNumber, u.FullName, u.Age, u.Gender, u.Passport, u.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByWhatsAppNumber fetches a user by its messaging-platform number.
func (r *UserRepo) GetByWhatsAppNumber(ctx context.Context, number string) (model.User, error) {
	number = strings.TrimSpace(number)
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE whatsapp_number=? LIMIT 1", number)
}

// SetStatus updates the review state fields of a user in one statement.
// The caller computes the rejection count and ban flag; the repository only
// persists them.
func (r *UserRepo) SetStatus(ctx context.Context, id string, status model.UserStatus, rejectionCount int, isBanned bool, adminNotes *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET status=?, rejection_count=?, is_banned=?, admin_notes=COALESCE(?, admin_notes) WHERE id=?",
		status, rejectionCount, isBanned, adminNotes, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetCounselor assigns a counselor to a user.
func (r *UserRepo) SetCounselor(ctx context.Context, id, counselorID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET counselor_id=? WHERE id=?", counselorID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListByStatus returns users in the given state, oldest first so admins
// review in arrival order.
func (r *UserRepo) ListByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error) {
	return r.list(ctx, "SELECT "+userColumns+" FROM users WHERE status=? ORDER BY created_at ASC", status)
}

// ListAll returns every user, newest first.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
}

// CountByStatus returns the number of users per review state keyed by the
// status string, plus a "" key holding the grand total.
func (r *UserRepo) CountByStatus(ctx context.Context) (map[model.UserStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM users GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.UserStatus]int)
	for rows.Next() {
		var s model.UserStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.WhatsAppNumber, &u.FullName, &u.Age, &u.Gender, &u.Passport,
		&u.Status, &u.RejectionCount, &u.IsBanned, &u.AdminNotes, &u.CounselorID,
		&u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.WhatsAppNumber, &u.FullName, &u.Age, &u.Gender, &u.Passport,
			&u.Status, &u.RejectionCount, &u.IsBanned, &u.AdminNotes, &u.CounselorID,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// requireRow converts a zero-rows-affected update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
