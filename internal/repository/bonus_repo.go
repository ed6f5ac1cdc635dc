package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBonusExhausted = errors.New("bonus pool exhausted")

// BonusRepository owns the capacity-bounded registration bonus pool. The
// claim is a single conditional increment, so concurrent registrations can
// never allocate past capacity.
type BonusRepository struct {
	db *pgxpool.Pool
}

func NewBonusRepository(db *pgxpool.Pool) *BonusRepository {
	return &BonusRepository{db: db}
}

// Claim takes one slot from the pool. Returns ErrBonusExhausted once
// allocated has reached capacity.
func (r *BonusRepository) Claim(ctx context.Context) (int64, error) {
	var allocated int64
	err := r.db.QueryRow(ctx,
		`UPDATE bonus_pool SET allocated = allocated + 1
		 WHERE id = 1 AND allocated < capacity
		 RETURNING allocated`,
	).Scan(&allocated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrBonusExhausted
		}
		return 0, err
	}
	return allocated, nil
}

// Release hands a claimed slot back. Used to compensate a claim whose
// grant never landed.
func (r *BonusRepository) Release(ctx context.Context) error {
	_, err := r.db.Exec(ctx,
		`UPDATE bonus_pool SET allocated = allocated - 1
		 WHERE id = 1 AND allocated > 0`,
	)
	return err
}

// Remaining returns the number of unallocated slots.
func (r *BonusRepository) Remaining(ctx context.Context) (int64, error) {
	var remaining int64
	err := r.db.QueryRow(ctx,
		`SELECT capacity - allocated FROM bonus_pool WHERE id = 1`,
	).Scan(&remaining)
	return remaining, err
}
