package registration

import "time"

// Registration is proof a user joined a pool. Exactly one per (UserID, PoolID).
type Registration struct {
	UserID   string
	PoolID   string
	JoinedAt time.Time
}
