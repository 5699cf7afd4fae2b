// Package session implements the admin session record and its
// lifecycle policy.  Sessions are self-issued and carried entirely by
// the client (cookie or bearer token); the server never stores them.
// Validity is re-derived on every privileged call by checking the
// expiry here plus re-verifying the subject against the
// admin_profiles table, so nothing in the payload is trusted for
// authorization on its own.
package session

import "time"

const (
	// Duration is the fixed session window granted at login.
	Duration = 7 * 24 * time.Hour
	// RefreshThreshold is the sliding-window trigger: a still-valid
	// session with less than this much time remaining is refreshed.
	RefreshThreshold = 24 * time.Hour
)

// timeNow is swapped out by tests to pin the clock.
var timeNow = func() time.Time { return time.Now().UTC() }

// Session is the admin session record.  The JSON field names match
// the persisted cookie representation.
type Session struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	LastRefreshed time.Time `json:"last_refreshed,omitzero"`
}

// New creates a session for the given admin with a full window
// starting now.
func New(id, email, role string) Session {
	now := timeNow()
	return Session{
		ID:            id,
		Email:         email,
		Role:          role,
		CreatedAt:     now,
		ExpiresAt:     now.Add(Duration),
		LastRefreshed: now,
	}
}

// IsExpired reports whether the session is past its expiry.  A
// session is valid up to and including the boundary instant.
func (s Session) IsExpired() bool {
	return timeNow().After(s.ExpiresAt)
}

// TimeRemaining returns the time left until expiry, clamped at zero.
func (s Session) TimeRemaining() time.Duration {
	if d := s.ExpiresAt.Sub(timeNow()); d > 0 {
		return d
	}
	return 0
}

// ShouldRefresh reports whether the session is inside the refresh
// window.  An already-expired session is never refreshed; refresh is
// only a sliding-window extension for still-valid sessions.
func (s Session) ShouldRefresh() bool {
	remaining := s.TimeRemaining()
	return remaining > 0 && remaining < RefreshThreshold
}

// Refresh returns a copy of the session with a new full window and an
// updated last_refreshed timestamp.  All other fields are unchanged.
func (s Session) Refresh() Session {
	now := timeNow()
	s.ExpiresAt = now.Add(Duration)
	s.LastRefreshed = now
	return s
}
