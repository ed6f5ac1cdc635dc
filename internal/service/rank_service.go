package service

import (
	"context"
	"errors"

	"prediction_webapp/internal/domain"
)

// ErrUserNotRanked is returned when the user has no handle or is not part
// of the ranked population.
var ErrUserNotRanked = errors.New("user not ranked")

// RankedUserSource provides the score-sorted population scan: active
// handle-bearing users ordered by amount_won desc, registration date asc.
type RankedUserSource interface {
	ListRanked(ctx context.Context) ([]domain.User, error)
}

// RankService computes leaderboard positions on demand. Every call is a
// full population scan; callers needing frequent refresh throttle or
// cache externally.
type RankService struct {
	users RankedUserSource
}

func NewRankService(users RankedUserSource) *RankService {
	return &RankService{users: users}
}

// GetRank returns the user's position and the gap to the next distinct
// score above them.
func (s *RankService) GetRank(ctx context.Context, userID int64) (*domain.RankEntry, error) {
	users, err := s.users.ListRanked(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range computeRanks(users) {
		if e.UserID == userID {
			entry := e
			return &entry, nil
		}
	}
	return nil, ErrUserNotRanked
}

// Leaderboard returns the top entries of the current ranking.
func (s *RankService) Leaderboard(ctx context.Context, limit int) ([]domain.RankEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	users, err := s.users.ListRanked(ctx)
	if err != nil {
		return nil, err
	}

	entries := computeRanks(users)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// computeRanks assigns positional ranks over an already-sorted population.
// Tied scores get distinct ranks (positional, not dense) but share the
// same to-next-rank baseline: the gap to the nearest strictly greater
// score. The top entry, and anyone tied with it, has no score above and
// gets 0.
func computeRanks(users []domain.User) []domain.RankEntry {
	entries := make([]domain.RankEntry, 0, len(users))

	var (
		prevDistinct     int64
		hasDistinctAbove bool
		lastScore        int64
	)

	for i, u := range users {
		if i > 0 && u.AmountWon != lastScore {
			prevDistinct = lastScore
			hasDistinctAbove = true
		}

		toNext := int64(0)
		if hasDistinctAbove {
			toNext = prevDistinct - u.AmountWon
		}

		entries = append(entries, domain.RankEntry{
			UserID:     u.ID,
			Handle:     u.Handle,
			AmountWon:  u.AmountWon,
			Rank:       i + 1,
			ToNextRank: toNext,
		})
		lastScore = u.AmountWon
	}

	return entries
}
