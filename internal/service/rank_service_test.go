package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"prediction_webapp/internal/domain"
)

// population must already be sorted amount_won desc, created_at asc —
// the order ListRanked delivers.
func rankedUsers() []domain.User {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.User{
		{ID: 1, Handle: "A", AmountWon: 100, CreatedAt: base}, // registered before B: wins the tie
		{ID: 2, Handle: "B", AmountWon: 100, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Handle: "C", AmountWon: 50, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Handle: "D", AmountWon: 10, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func TestComputeRanks(t *testing.T) {
	want := []struct {
		userID     int64
		rank       int
		toNextRank int64
	}{
		{1, 1, 0},  // A registered first, takes rank 1 on the tie
		{2, 2, 0},  // B tied at the top score, same baseline
		{3, 3, 50}, // 100 - 50
		{4, 4, 40}, // 50 - 10
	}

	entries := computeRanks(rankedUsers())

	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		e := entries[i]
		if e.UserID != w.userID || e.Rank != w.rank || e.ToNextRank != w.toNextRank {
			t.Fatalf("entry %d = {user %d rank %d toNext %d}; want {user %d rank %d toNext %d}",
				i, e.UserID, e.Rank, e.ToNextRank, w.userID, w.rank, w.toNextRank)
		}
	}
}

func TestComputeRanksEmpty(t *testing.T) {
	if entries := computeRanks(nil); len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

type fakeRankedSource struct {
	users []domain.User
	err   error
}

func (f *fakeRankedSource) ListRanked(ctx context.Context) ([]domain.User, error) {
	return f.users, f.err
}

func TestGetRank(t *testing.T) {
	s := NewRankService(&fakeRankedSource{users: rankedUsers()})

	entry, err := s.GetRank(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRank: %v", err)
	}
	if entry.Rank != 1 {
		t.Fatalf("GetRank(1) = rank %d; earliest-registered of a tied score must take rank 1", entry.Rank)
	}

	entry, err = s.GetRank(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetRank: %v", err)
	}
	if entry.Rank != 3 || entry.ToNextRank != 50 {
		t.Fatalf("GetRank(3) = rank %d toNext %d; want rank 3 toNext 50", entry.Rank, entry.ToNextRank)
	}

	if _, err := s.GetRank(context.Background(), 999); !errors.Is(err, ErrUserNotRanked) {
		t.Fatalf("expected ErrUserNotRanked, got %v", err)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	s := NewRankService(&fakeRankedSource{users: rankedUsers()})

	entries, err := s.Leaderboard(context.Background(), 2)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("unexpected ranks %d, %d", entries[0].Rank, entries[1].Rank)
	}
}
