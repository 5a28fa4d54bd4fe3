package award

import "time"

// Tier binds a prize to a contiguous rank range within a pool,
// e.g. rank 1, ranks 2-5.
type Tier struct {
	PoolID   string
	PrizeID  string
	FromRank int
	ToRank   int
}

func (t Tier) Covers(rank int) bool {
	return rank >= t.FromRank && rank <= t.ToRank
}

// Award is a prize assignment for a final rank within a pool. Created once
// per (PoolID, Rank) by the award pipeline; afterwards only the delivery
// and notification fields change, unless the award is voided.
type Award struct {
	ID          string
	PoolID      string
	UserID      string
	Rank        int
	PrizeID     string
	RankFrom    int
	RankTo      int
	AwardedAt   time.Time
	DeliveredAt *time.Time
	Notified    bool
	VoidedAt    *time.Time
}

func (a Award) Voided() bool {
	return a.VoidedAt != nil
}
