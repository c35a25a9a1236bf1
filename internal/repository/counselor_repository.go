package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
)

// CounselorRepo provides operations for the counselors table.
type CounselorRepo struct{ db *sql.DB }

// NewCounselorRepo returns a new CounselorRepo bound to the given database.
func NewCounselorRepo(db *sql.DB) *CounselorRepo { return &CounselorRepo{db: db} }

// Create inserts a new counselor and populates its generated ID.
func (r *CounselorRepo) Create(ctx context.Context, c *model.Counselor) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO counselors (id, name, phone, is_active) VALUES (?,?,?,?)",
		c.ID, c.Name, c.Phone, c.IsActive)
	return err
}

// GetByID fetches a counselor by id.
func (r *CounselorRepo) GetByID(ctx context.Context, id string) (model.Counselor, error) {
	var c model.Counselor
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,phone,is_active,created_at FROM counselors WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Counselor{}, ErrNotFound
	}
	return c, err
}

// FirstActive returns the first active counselor, or ErrNotFound when none
// is available. Assignment is first-active-match; there is no load
// balancing.
func (r *CounselorRepo) FirstActive(ctx context.Context) (model.Counselor, error) {
	var c model.Counselor
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,phone,is_active,created_at FROM counselors WHERE is_active=1 ORDER BY created_at ASC LIMIT 1").
		Scan(&c.ID, &c.Name, &c.Phone, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Counselor{}, ErrNotFound
	}
	return c, err
}
