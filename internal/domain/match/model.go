package match

import "time"

// Match is a single fixture within a season: a kickoff instant and,
// once the official feed delivers it, a result.
type Match struct {
	ID        string
	SeasonID  string
	Round     int
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	HomeScore *int
	AwayScore *int
	// LockOverride wins over the kickoff clock in both directions. A false
	// override keeps the match open past kickoff until an operator re-locks it.
	LockOverride *bool
}

// IsLocked derives the lock state at a given instant. There is no stored
// lock flag to keep in sync with the clock: the override is the only
// authoritative piece of state besides kickoffAt.
func (m Match) IsLocked(now time.Time) bool {
	if m.LockOverride != nil {
		return *m.LockOverride
	}
	return !now.Before(m.KickoffAt)
}

func (m Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}
