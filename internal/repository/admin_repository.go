package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// AdminRepo provides operations for admin accounts used by the admin API.
type AdminRepo struct{ db *sql.DB }

// NewAdminRepo returns a new AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// Create inserts an admin account. The email is normalized before insert; a
// duplicate email yields ErrDuplicate.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO admins (id, email, password_hash) VALUES (?,?,?)",
		a.ID, a.Email, a.PasswordHash)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Admin
	err := r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at FROM admins WHERE email=? LIMIT 1", email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}
