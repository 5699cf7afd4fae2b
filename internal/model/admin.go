package model

import "time"

// AdminProfile represents a row in the `admin_profiles` table.  This
// table is the authoritative list of principals allowed to use the
// back-office.  Session cookies carry a copy of the email and role
// for display purposes only; authorization decisions are always made
// against this record, looked up by ID on every privileged call.
//
// Fields:
//  ID        – primary key; matches the identity provider's user id.
//  Email     – admin email address.
//  Role      – admin role name (e.g. admin, super_admin).
//  CreatedAt – timestamp of creation.
type AdminProfile struct {
	ID        string    `json:"id"`         // admin_profiles.id
	Email     string    `json:"email"`      // admin_profiles.email
	Role      string    `json:"role"`       // admin_profiles.role
	CreatedAt time.Time `json:"created_at"` // admin_profiles.created_at
}
