package domain

import "time"

// MirrorCampaign is the off-chain record saved when a campaign is created.
// The chain stays authoritative for amounts and deadlines; this record exists
// so campaigns remain browsable (and moderatable) without a wallet connection.
type MirrorCampaign struct {
	ID              string
	ChainID         *int64
	Title           string
	Description     string
	ImageURL        string
	MetadataHash    string
	TargetAmount    string
	DurationDays    int
	Category        string
	Tags            []string
	CreatorWallet   string
	ContractAddress string
	Approved        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
