package model

import "time"

// Invite status values as stored in user_invites.status.  "accepted"
// is terminal: an accepted invite never transitions again.  "expired"
// is mostly a derived state – a "sent" invite past its expires_at is
// reported as expired on reads without an eager write.
const (
	InviteStatusSent     = "sent"
	InviteStatusAccepted = "accepted"
	InviteStatusExpired  = "expired"
)

// Invite represents a row in the `user_invites` table.  There is at
// most one invite per email (unique key); re-sending overwrites
// sent_at/expires_at in place and preserves the id.
//
// Fields:
//  ID         – primary key identifier (uuid string).
//  Email      – invited email address, normalized, unique.
//  Status     – sent | accepted | expired.
//  InvitedBy  – issuing admin email or automation source tag.
//  SentAt     – when the invite was last sent.
//  AcceptedAt – when the invite was accepted (nullable).
//  ExpiresAt  – end of the 7-day acceptance window.
type Invite struct {
	ID         string     `json:"id"`          // user_invites.id
	Email      string     `json:"email"`       // user_invites.email
	Status     string     `json:"status"`      // user_invites.status
	InvitedBy  string     `json:"invited_by"`  // user_invites.invited_by
	SentAt     time.Time  `json:"sent_at"`     // user_invites.sent_at
	AcceptedAt *time.Time `json:"accepted_at"` // user_invites.accepted_at (nullable)
	ExpiresAt  time.Time  `json:"expires_at"`  // user_invites.expires_at
}

// EffectiveStatus returns the invite status as of the given instant,
// mapping a "sent" invite past its expiry window to "expired".
func (i Invite) EffectiveStatus(now time.Time) string {
	if i.Status == InviteStatusSent && now.After(i.ExpiresAt) {
		return InviteStatusExpired
	}
	return i.Status
}
