package wallet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotSupported is the mint path's explicit not-yet-implemented contract.
// Callers must treat it as non-fatal for the award record already written.
var ErrNotSupported = errors.New("wallet: mint not supported")

// Gateway is the wallet/trading engine's surface as seen by this core.
// Mint must be invoked exactly once per award by the caller; balance reads
// are eventually-consistent snapshots.
type Gateway interface {
	Mint(ctx context.Context, userID int64, amount int64) error
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// LedgerGateway reads token balances from the wallet engine's balance
// table. Minting is not wired up yet and fails hard rather than silently
// succeeding.
type LedgerGateway struct {
	db *pgxpool.Pool
}

func NewLedgerGateway(db *pgxpool.Pool) *LedgerGateway {
	return &LedgerGateway{db: db}
}

func (g *LedgerGateway) Mint(ctx context.Context, userID int64, amount int64) error {
	return ErrNotSupported
}

func (g *LedgerGateway) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := g.db.QueryRow(ctx,
		`SELECT COALESCE(balance, 0) FROM wallet_balances WHERE user_id = $1`,
		userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return balance, nil
}
