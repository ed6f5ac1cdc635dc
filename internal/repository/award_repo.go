package repository

import (
	"context"
	"errors"

	"prediction_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AwardRepository is the append-only reward ledger. Rows are inserted,
// never updated or deleted.
type AwardRepository struct {
	db *pgxpool.Pool
}

func NewAwardRepository(db *pgxpool.Pool) *AwardRepository {
	return &AwardRepository{db: db}
}

// Append inserts a ledger entry. A unique index on (user_id, award_type)
// makes the insert a no-op for a duplicate of a one-shot award; the
// returned bool reports whether a row was actually written, so callers
// can skip mint and publish on duplicates.
func (r *AwardRepository) Append(ctx context.Context, ev *domain.AwardEvent) (bool, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO award_events (user_id, award_type, award_amount, broadcast)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, award_type) DO NOTHING
		 RETURNING id, created_at`,
		ev.UserID, ev.Type, ev.Amount, ev.Broadcast,
	).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByUser returns a user's award history, newest first.
func (r *AwardRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AwardEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, award_type, award_amount, broadcast, created_at
		 FROM award_events
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.AwardEvent
	for rows.Next() {
		var ev domain.AwardEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Type, &ev.Amount, &ev.Broadcast, &ev.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &ev)
	}
	return result, rows.Err()
}
