package repository

import (
	"context"
	"errors"
	"time"

	"prediction_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrTransactionConflict = errors.New("transaction conflict")
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(handle, ''), COALESCE(first_name, ''), amount_won,
		        qualifying_actions, status, reactivate_on, currency, notifications, bonus, created_at
		 FROM users
		 WHERE id = $1`,
		id,
	)

	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Handle,
		&u.FirstName,
		&u.AmountWon,
		&u.QualifyingActions,
		&u.Status,
		&u.ReactivateOn,
		&u.Currency,
		&u.Notifications,
		&u.Bonus,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.Currency == "" {
		u.Currency = domain.CurrencyUSD
	}
	u.Status = domain.StatusActive

	return r.db.QueryRow(ctx,
		`INSERT INTO users (handle, first_name, currency, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Handle,
		u.FirstName,
		u.Currency,
		u.Status,
	).Scan(&u.ID, &u.CreatedAt)
}

// IncreaseAmountWon atomically adds delta to the user's amount_won and
// returns the new value. Single-row read-modify-write, no lost updates
// under concurrent callers.
func (r *UserRepository) IncreaseAmountWon(ctx context.Context, userID int64, delta int64) (int64, error) {
	if delta < 0 {
		return 0, ErrInvalidAmount
	}

	var newAmount int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET amount_won = amount_won + $1 WHERE id = $2 RETURNING amount_won`,
		delta, userID,
	).Scan(&newAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "40001" {
			// serialization failure: the caller decides whether to retry
			return 0, ErrTransactionConflict
		}
		return 0, err
	}
	return newAmount, nil
}

// IncrementQualifyingActions bumps the lifetime action counter and returns
// the new total.
func (r *UserRepository) IncrementQualifyingActions(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET qualifying_actions = qualifying_actions + 1 WHERE id = $1 RETURNING qualifying_actions`,
		userID,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return total, nil
}

// SetHandle sets the user's public handle. Returns whether the handle was
// previously unset, so callers can fire the one-shot award.
func (r *UserRepository) SetHandle(ctx context.Context, userID int64, handle string) (bool, error) {
	// conditional first: only succeeds on the first set
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET handle = $1 WHERE id = $2 AND COALESCE(handle, '') = ''`,
		handle, userID,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	tag, err = r.db.Exec(ctx,
		`UPDATE users SET handle = $1 WHERE id = $2`,
		handle, userID,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, ErrUserNotFound
	}
	return false, nil
}

func (r *UserRepository) SetNotifications(ctx context.Context, userID int64, settings []string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET notifications = $1 WHERE id = $2`,
		settings, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetCurrency(ctx context.Context, userID int64, c domain.Currency) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET currency = $1 WHERE id = $2`,
		c, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetBonus records which promotional bonus was granted. No-op if a bonus
// marker is already present.
func (r *UserRepository) SetBonus(ctx context.Context, userID int64, bonus string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET bonus = $1 WHERE id = $2 AND bonus IS NULL`,
		bonus, userID,
	)
	return err
}

func (r *UserRepository) SetStatus(ctx context.Context, userID int64, status domain.UserStatus, reactivateOn *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET status = $1, reactivate_on = $2 WHERE id = $3`,
		status, reactivateOn, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListRanked returns all active users with a handle, ordered the way the
// ranking engine consumes them: amount_won desc, earliest registration
// first among ties.
func (r *UserRepository) ListRanked(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, handle, COALESCE(first_name, ''), amount_won, created_at
		FROM users
		WHERE COALESCE(handle, '') <> '' AND status = 'active'
		ORDER BY amount_won DESC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Handle, &u.FirstName, &u.AmountWon, &u.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}
