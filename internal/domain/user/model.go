package user

// Principal identifies an authenticated player.
type Principal struct {
	UserID string
	Email  string
}
