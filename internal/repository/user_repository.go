package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/growai/arbitrageos-admin/internal/model"
)

// UserRepo provides access to the users table plus the derived
// per-user counts over workspaces and deliverables.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,name,status,last_login,invite_sent_at,created_at"

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// UpdateStatus overwrites the user's status unconditionally.  The
// write is idempotent: setting an already-set status is a no-op in
// effect and still succeeds.  Existence is checked by the caller.
func (r *UserRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=? WHERE id=?", status, id)
	return err
}

// MarkActive flips the user with the given email to active and
// records the login time.  Used by the invite acceptance transition;
// a missing user row is not an error: the main application may not
// have created the account yet.
func (r *UserRepo) MarkActive(ctx context.Context, email string, loginAt time.Time) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=?, last_login=? WHERE email=?",
		model.UserStatusActive, loginAt, email)
	return err
}

// ListWithStats returns all users, newest first, each joined with its
// workspace and deliverable counts.
func (r *UserRepo) ListWithStats(ctx context.Context) ([]model.UserWithStats, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT `+userColumns+`,
               (SELECT COUNT(*) FROM workspaces w WHERE w.user_id = users.id),
               (SELECT COUNT(*) FROM deliverables d WHERE d.user_id = users.id)
        FROM users
        ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserWithStats{}
	for rows.Next() {
		var (
			u            model.UserWithStats
			name, status sql.NullString
			lastLogin    sql.NullTime
			inviteSentAt sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Email, &name, &status, &lastLogin, &inviteSentAt,
			&u.CreatedAt, &u.WorkspaceCount, &u.ToolsUsed); err != nil {
			return nil, err
		}
		applyNullable(&u.User, name, status, lastLogin, inviteSentAt)
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u            model.User
		name, status sql.NullString
		lastLogin    sql.NullTime
		inviteSentAt sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &name, &status, &lastLogin, &inviteSentAt, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	applyNullable(&u, name, status, lastLogin, inviteSentAt)
	return u, nil
}

func applyNullable(u *model.User, name, status sql.NullString, lastLogin, inviteSentAt sql.NullTime) {
	if name.Valid {
		u.Name = &name.String
	}
	if status.Valid {
		u.Status = status.String
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	if inviteSentAt.Valid {
		t := inviteSentAt.Time
		u.InviteSentAt = &t
	}
}
