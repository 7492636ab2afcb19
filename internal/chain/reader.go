package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Campaign is one campaign record exactly as the contract returns it. Numeric
// fields keep their chain-native encoding; normalization happens downstream.
type Campaign struct {
	ID                *big.Int
	Creator           common.Address
	Title             string
	Description       string
	MetadataHash      string
	TargetAmount      *big.Int
	RaisedAmount      *big.Int
	Deadline          *big.Int
	Withdrawn         bool
	Active            bool
	CreatedAt         *big.Int
	ContributorsCount *big.Int
}

// ContributionEvent is one contribution entry from the contract's per-campaign
// contribution log.
type ContributionEvent struct {
	Contributor common.Address
	Amount      *big.Int
	Timestamp   *big.Int
}

// ContractStats is the contract-wide counters exposed to the admin surface.
type ContractStats struct {
	TotalCampaigns  *big.Int
	TotalFees       *big.Int
	ContractBalance *big.Int
}

// Reader is the read surface of the crowdfunding contract. Every call is
// independently failable; callers own partial-failure handling.
type Reader interface {
	Campaign(ctx context.Context, id uint64) (*Campaign, error)
	Contribution(ctx context.Context, id uint64, account string) (*big.Int, error)
	UserCampaignIDs(ctx context.Context, account string) ([]uint64, error)
	UserContributionIDs(ctx context.Context, account string) ([]uint64, error)
	ActiveCampaignIDs(ctx context.Context, offset, limit uint64) ([]uint64, error)
	CampaignContributions(ctx context.Context, id uint64) ([]ContributionEvent, error)
	ContractStats(ctx context.Context) (*ContractStats, error)
	Paused(ctx context.Context) (bool, error)
	Owner(ctx context.Context) (string, error)
}
