package model

// Statistics holds the dashboard rollup counts.  Every value is
// recomputed from the authoritative store on each request; nothing
// here is cached.
type Statistics struct {
	TotalUsers      int64 `json:"totalUsers"`      // all user rows
	ActiveUsers     int64 `json:"activeUsers"`     // users with status active
	PendingInvites  int64 `json:"pendingInvites"`  // invites with status sent
	TotalWorkspaces int64 `json:"totalWorkspaces"` // all workspace rows
	TotalToolsUsed  int64 `json:"totalToolsUsed"`  // all deliverable rows
}
