package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DeadLetter records an external effect that failed after its ledger write
// already happened (wallet mint, pub/sub publish). Insert-only.
type DeadLetter struct {
	ID        int64          `json:"id"`
	Kind      string         `json:"kind"`
	UserID    int64          `json:"user_id"`
	Detail    map[string]any `json:"detail"`
	CreatedAt time.Time      `json:"created_at"`
}

type DeadLetterRepository struct {
	db *pgxpool.Pool
}

func NewDeadLetterRepository(db *pgxpool.Pool) *DeadLetterRepository {
	return &DeadLetterRepository{db: db}
}

func (r *DeadLetterRepository) Create(ctx context.Context, d *DeadLetter) error {
	detailJSON, err := json.Marshal(d.Detail)
	if err != nil {
		detailJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO dead_letters (kind, user_id, detail)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		d.Kind, d.UserID, detailJSON,
	).Scan(&d.ID, &d.CreatedAt)
}

// ListRecent returns the most recent dead letters for inspection.
func (r *DeadLetterRepository) ListRecent(ctx context.Context, limit int) ([]*DeadLetter, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, kind, user_id, detail, created_at
		 FROM dead_letters
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*DeadLetter
	for rows.Next() {
		var (
			d          DeadLetter
			detailJSON []byte
		)
		if err := rows.Scan(&d.ID, &d.Kind, &d.UserID, &detailJSON, &d.CreatedAt); err != nil {
			return nil, err
		}
		if len(detailJSON) > 0 {
			_ = json.Unmarshal(detailJSON, &d.Detail)
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}
