package domain

import "time"

// TxType enumerates ledger transaction directions.
type TxType string

const (
	TxTypeCredit TxType = "CREDIT"
	TxTypeDebit  TxType = "DEBIT"
)

// Wallet is the off-chain bookkeeping balance for one user, kept in the
// smallest display unit (integer). It has no relationship to on-chain funds;
// the contract is authoritative for those.
type Wallet struct {
	ID        string
	UserID    string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalletTransaction is a single ledger entry.
type WalletTransaction struct {
	ID           string
	UserID       string
	Type         TxType
	Amount       int64
	Description  string
	BalanceAfter int64
	CreatedAt    time.Time
}
