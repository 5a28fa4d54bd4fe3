package standings

import "time"

// Snapshot is a cached copy of externally-sourced competition standings.
// It is disposable: the provider is the source of truth and a pruned
// snapshot is fully reconstructable from it.
type Snapshot struct {
	ID            string
	CompetitionID string
	SeasonID      string
	Payload       []byte
	FetchedAt     time.Time
}

func (s Snapshot) StaleAt(threshold time.Time) bool {
	return s.FetchedAt.Before(threshold)
}
