package model

import "time"

// User account status values as stored in users.status.  A NULL
// status in the database maps to the empty string and means the
// account state is unknown (e.g. created before status tracking).
const (
	UserStatusInvited   = "invited"
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User represents a platform account as stored in the `users`
// table.  Status transitions are either admin-triggered
// (suspend/activate) or system-triggered (activation on first login
// after invite acceptance).
//
// Fields:
//  ID           – primary key identifier (uuid string).
//  Email        – unique email address.
//  Name         – display name (nullable).
//  Status       – invited | active | suspended | "" (unknown).
//  LastLogin    – timestamp of the most recent login (nullable).
//  InviteSentAt – when the account's invite was last sent (nullable).
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           string     `json:"id"`             // users.id
	Email        string     `json:"email"`          // users.email
	Name         *string    `json:"name"`           // users.name (nullable)
	Status       string     `json:"status"`         // users.status (nullable)
	LastLogin    *time.Time `json:"last_login"`     // users.last_login (nullable)
	InviteSentAt *time.Time `json:"invite_sent_at"` // users.invite_sent_at (nullable)
	CreatedAt    time.Time  `json:"created_at"`     // users.created_at
}

// UserWithStats is a User joined with derived counts over related
// collections.  The counts are computed by the repository at read
// time; they are not stored on the users table.
type UserWithStats struct {
	User
	WorkspaceCount int `json:"workspaceCount"` // count of workspaces owned
	ToolsUsed      int `json:"toolsUsed"`      // count of deliverables produced
}
