package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateKYC(ctx context.Context, userID, idType, idImage, selfie string) error
	SetRole(ctx context.Context, userID string, role UserRole) error
}

// WalletRepository handles ledger persistence. Debit must reject amounts that
// would drive the balance negative with ErrInsufficientBalance.
type WalletRepository interface {
	Get(ctx context.Context, userID string) (*Wallet, error)
	Credit(ctx context.Context, userID string, amount int64, description string) (int64, error)
	Debit(ctx context.Context, userID string, amount int64, description string) (int64, error)
	Transactions(ctx context.Context, userID string, limit int) ([]WalletTransaction, error)
}

// CampaignMirrorRepository persists the off-chain campaign records.
type CampaignMirrorRepository interface {
	Create(ctx context.Context, c *MirrorCampaign) error
	List(ctx context.Context, onlyApproved bool) ([]MirrorCampaign, error)
	GetByID(ctx context.Context, id string) (*MirrorCampaign, error)
	Approve(ctx context.Context, id string) error
	LinkChainID(ctx context.Context, id string, chainID int64) error
}
