package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/growai/arbitrageos-admin/internal/model"
)

// InviteRepo persists the user_invites table.  The email column
// carries a unique key; Upsert depends on the database resolving
// concurrent inserts for the same email atomically (last writer
// wins), so there is never more than one invite row per address.
type InviteRepo struct{ DB *sql.DB }

func NewInviteRepo(db *sql.DB) *InviteRepo { return &InviteRepo{DB: db} }

const inviteColumns = "id,email,status,invited_by,sent_at,accepted_at,expires_at"

// Upsert creates the invite for email or, when a row already exists,
// overwrites status/invited_by/sent_at/expires_at in place while
// preserving the original id.  The caller guards the accepted case
// before calling; accepted rows must never be reset here, hence the
// status condition inside the update.
func (r *InviteRepo) Upsert(ctx context.Context, email, invitedBy string, sentAt, expiresAt time.Time) (model.Invite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO user_invites (id,email,status,invited_by,sent_at,expires_at)
        VALUES (?,?,?,?,?,?)
        ON DUPLICATE KEY UPDATE
            status     = IF(status='accepted', status, VALUES(status)),
            invited_by = IF(status='accepted', invited_by, VALUES(invited_by)),
            sent_at    = IF(status='accepted', sent_at, VALUES(sent_at)),
            expires_at = IF(status='accepted', expires_at, VALUES(expires_at))`,
		uuid.NewString(), email, model.InviteStatusSent, invitedBy, sentAt, expiresAt)
	if err != nil {
		return model.Invite{}, err
	}
	return r.GetByEmail(ctx, email)
}

// GetByID fetches an invite by id.
func (r *InviteRepo) GetByID(ctx context.Context, id string) (model.Invite, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+inviteColumns+" FROM user_invites WHERE id=? LIMIT 1", id)
	return scanInvite(row)
}

// GetByEmail fetches an invite by normalized email.
func (r *InviteRepo) GetByEmail(ctx context.Context, email string) (model.Invite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+inviteColumns+" FROM user_invites WHERE email=? LIMIT 1", email)
	return scanInvite(row)
}

// Refresh resets an existing invite to sent with a new delivery time
// and expiry window.  The id is preserved; accepted invites are left
// untouched (the service rejects them before calling).
func (r *InviteRepo) Refresh(ctx context.Context, id string, sentAt, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE user_invites
        SET status=?, sent_at=?, expires_at=?
        WHERE id=? AND status <> ?`,
		model.InviteStatusSent, sentAt, expiresAt, id, model.InviteStatusAccepted)
	return err
}

// MarkAccepted records the terminal acceptance transition.  The
// status guard makes replays harmless: an already-accepted invite
// keeps its original accepted_at.
func (r *InviteRepo) MarkAccepted(ctx context.Context, id string, acceptedAt time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE user_invites
        SET status=?, accepted_at=?
        WHERE id=? AND status <> ?`,
		model.InviteStatusAccepted, acceptedAt, id, model.InviteStatusAccepted)
	return err
}

// List returns all invites, most recently sent first.
func (r *InviteRepo) List(ctx context.Context) ([]model.Invite, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+inviteColumns+" FROM user_invites ORDER BY sent_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Invite{}
	for rows.Next() {
		var (
			inv        model.Invite
			acceptedAt sql.NullTime
		)
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.Status, &inv.InvitedBy,
			&inv.SentAt, &acceptedAt, &inv.ExpiresAt); err != nil {
			return nil, err
		}
		if acceptedAt.Valid {
			t := acceptedAt.Time
			inv.AcceptedAt = &t
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanInvite(row *sql.Row) (model.Invite, error) {
	var (
		inv        model.Invite
		acceptedAt sql.NullTime
	)
	err := row.Scan(&inv.ID, &inv.Email, &inv.Status, &inv.InvitedBy,
		&inv.SentAt, &acceptedAt, &inv.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Invite{}, ErrNotFound
	}
	if err != nil {
		return model.Invite{}, err
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time
		inv.AcceptedAt = &t
	}
	return inv, nil
}
