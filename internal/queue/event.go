// Package queue defines message payloads exchanged over the message
// broker, plus the background consumer that turns them into an audit
// trail.
package queue

// Event types published by the back-office.
const (
	EventInviteSent        = "invite.sent"
	EventInviteAccepted    = "invite.accepted"
	EventUserStatusChanged = "user.status_changed"
)

// AdminEvent is published whenever an administrative action changes
// invite or account state.  It carries enough information for
// downstream consumers to audit or notify without querying the
// primary database.  Fields that do not apply to a given event type
// are left empty.
type AdminEvent struct {
	Type       string `json:"type"`
	InviteID   string `json:"invite_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Status     string `json:"status,omitempty"`
	Actor      string `json:"actor,omitempty"` // admin email or automation source
	OccurredAt string `json:"occurred_at"`
}
