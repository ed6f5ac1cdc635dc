package domain

import "time"

type AwardType string

const (
	AwardTotal5            AwardType = "total_5"
	AwardTotal20           AwardType = "total_20"
	AwardTotal50           AwardType = "total_50"
	AwardTotal100          AwardType = "total_100"
	AwardTotal150          AwardType = "total_150"
	AwardUsernameSet       AwardType = "username_set"
	AwardAvatarUploaded    AwardType = "avatar_uploaded"
	AwardRegistrationBonus AwardType = "registration_bonus"
)

// Milestones is the ascending list of lifetime qualifying-action totals
// that trigger a one-time award. An award fires only on the exact
// crossing, never retroactively.
var Milestones = []int64{5, 20, 50, 100, 150}

// MilestoneAwards maps each milestone total to its award type and amount.
var MilestoneAwards = map[int64]struct {
	Type   AwardType
	Amount int64
}{
	5:   {AwardTotal5, 500},
	20:  {AwardTotal20, 2000},
	50:  {AwardTotal50, 5000},
	100: {AwardTotal100, 10000},
	150: {AwardTotal150, 15000},
}

// OneShotAmounts holds fixed amounts for the non-milestone one-shot awards.
// The registration bonus amount is configured, not fixed here.
var OneShotAmounts = map[AwardType]int64{
	AwardUsernameSet:    250,
	AwardAvatarUploaded: 250,
}

// AwardEvent is an append-only reward ledger entry. Records are never
// mutated or deleted.
type AwardEvent struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Type      AwardType `db:"award_type" json:"award_type"`
	Amount    int64     `db:"award_amount" json:"award_amount"`
	Broadcast bool      `db:"broadcast" json:"broadcast"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
