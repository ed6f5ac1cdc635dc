package domain

// RankEntry is a derived leaderboard position. It is recomputed on demand
// from a full score-sorted user scan and never persisted.
type RankEntry struct {
	UserID     int64  `json:"user_id"`
	Handle     string `json:"handle"`
	AmountWon  int64  `json:"amount_won"`
	Rank       int    `json:"rank"`
	ToNextRank int64  `json:"to_next_rank"`
}
