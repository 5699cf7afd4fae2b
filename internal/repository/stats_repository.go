package repository

import (
	"context"
	"database/sql"

	"github.com/growai/arbitrageos-admin/internal/model"
)

// StatsRepo computes the dashboard rollups.  Every call goes back to
// the authoritative store; nothing is cached.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// Totals returns the aggregate counts in a single round trip.
func (r *StatsRepo) Totals(ctx context.Context) (model.Statistics, error) {
	var s model.Statistics
	err := r.DB.QueryRowContext(ctx, `
        SELECT
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM users WHERE status = 'active'),
            (SELECT COUNT(*) FROM user_invites WHERE status = 'sent'),
            (SELECT COUNT(*) FROM workspaces),
            (SELECT COUNT(*) FROM deliverables)`).
		Scan(&s.TotalUsers, &s.ActiveUsers, &s.PendingInvites, &s.TotalWorkspaces, &s.TotalToolsUsed)
	return s, err
}
