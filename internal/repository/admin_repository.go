package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/growai/arbitrageos-admin/internal/model"
)

// AdminRepo reads the authoritative admin_profiles table.  It is
// lookup-only: admin onboarding happens out of band.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByID fetches an admin profile by id.  This is the re-check every
// privileged call performs; session claims alone never grant access.
func (r *AdminRepo) GetByID(ctx context.Context, id string) (model.AdminProfile, error) {
	var a model.AdminProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,role,created_at FROM admin_profiles WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Email, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AdminProfile{}, ErrNotFound
	}
	return a, err
}

// GetByEmail fetches an admin profile by normalized email.  Used at
// login to resolve the principal behind an email address.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.AdminProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.AdminProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,role,created_at FROM admin_profiles WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AdminProfile{}, ErrNotFound
	}
	return a, err
}
