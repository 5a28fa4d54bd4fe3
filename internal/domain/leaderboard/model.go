package leaderboard

// Entry is one user's aggregate standing within a pool. Ranks follow
// standard competition ranking: tied users share a rank and the next
// distinct total skips the shared positions ([50,50,40] ranks as [1,1,3]).
type Entry struct {
	UserID      string
	TotalPoints int
	Rank        int
}
