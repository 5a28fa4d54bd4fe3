package prediction

import "time"

const (
	MinScore = 0
	MaxScore = 99
)

// Prediction is one user's score guess for one match in one pool.
// Unique on (PoolID, MatchID, UserID); mutable only while the match is open.
type Prediction struct {
	ID          string
	PoolID      string
	MatchID     string
	UserID      string
	HomeScore   int
	AwayScore   int
	SubmittedAt time.Time
	// Points stays nil until the scoring engine has seen an official result.
	Points *int
}

func ValidScore(value int) bool {
	return value >= MinScore && value <= MaxScore
}
