package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundhub/internal/domain"
)

// WalletRepositoryPG implements WalletRepository using PostgreSQL.
type WalletRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new wallet repo.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepositoryPG {
	return &WalletRepositoryPG{pool: pool}
}

// Get returns the user's wallet, creating an empty one on first access.
func (r *WalletRepositoryPG) Get(ctx context.Context, userID string) (*domain.Wallet, error) {
	_, err := r.pool.Exec(ctx, `
INSERT INTO wallets (id, user_id, balance)
VALUES ($1, $2, 0)
ON CONFLICT (user_id) DO NOTHING;
`, uuid.NewString(), userID)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, balance, created_at, updated_at
FROM wallets
WHERE user_id = $1;
`, userID)

	var w domain.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Credit adds funds and records the ledger entry, returning the new balance.
func (r *WalletRepositoryPG) Credit(ctx context.Context, userID string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive")
	}
	if _, err := r.Get(ctx, userID); err != nil {
		return 0, err
	}
	return r.apply(ctx, userID, amount, domain.TxTypeCredit, description, `
UPDATE wallets SET balance = balance + $2, updated_at = now()
WHERE user_id = $1
RETURNING balance;
`)
}

// Debit removes funds and records the ledger entry. A debit that would drive
// the balance negative fails with ErrInsufficientBalance.
func (r *WalletRepositoryPG) Debit(ctx context.Context, userID string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive")
	}
	if _, err := r.Get(ctx, userID); err != nil {
		return 0, err
	}
	return r.apply(ctx, userID, amount, domain.TxTypeDebit, description, `
UPDATE wallets SET balance = balance - $2, updated_at = now()
WHERE user_id = $1 AND balance >= $2
RETURNING balance;
`)
}

func (r *WalletRepositoryPG) apply(ctx context.Context, userID string, amount int64, txType domain.TxType, description, query string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var balance int64
	if err := tx.QueryRow(ctx, query, userID, amount).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if txType == domain.TxTypeDebit {
				return 0, domain.ErrInsufficientBalance
			}
			return 0, domain.ErrNotFound
		}
		return 0, err
	}

	_, err = tx.Exec(ctx, `
INSERT INTO wallet_transactions (id, user_id, type, amount, description, balance_after)
VALUES ($1, $2, $3, $4, $5, $6);
`, uuid.NewString(), userID, txType, amount, description, balance)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

// Transactions returns recent ledger entries, newest first.
func (r *WalletRepositoryPG) Transactions(ctx context.Context, userID string, limit int) ([]domain.WalletTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, type, amount, description, balance_after, created_at
FROM wallet_transactions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2;
`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.WalletTransaction
	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.BalanceAfter, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
