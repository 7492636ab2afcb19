// Package campaign joins raw contract reads with per-viewer contribution data
// and derives the display-ready campaign view models the API serves.
package campaign

import "math/big"

// TimeLeft is the coarse human-readable remaining time for a campaign.
type TimeLeft struct {
	Expired bool   `json:"expired"`
	Text    string `json:"text"`
}

// ViewModel is the derived, display-ready representation of one campaign.
// Amounts are decimal strings in the smallest unit so JSON clients never see
// precision loss; the *Display fields carry the same amounts in whole-token
// units. View models are rebuilt on every refresh and never cached.
type ViewModel struct {
	ID                uint64   `json:"id"`
	Creator           string   `json:"creator"`
	CreatorShort      string   `json:"creator_short"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	MetadataHash      string   `json:"metadata_hash"`
	TargetAmount      string   `json:"target_amount"`
	RaisedAmount      string   `json:"raised_amount"`
	TargetDisplay     string   `json:"target_display"`
	RaisedDisplay     string   `json:"raised_display"`
	Deadline          int64    `json:"deadline"`
	CreatedAt         int64    `json:"created_at"`
	Withdrawn         bool     `json:"withdrawn"`
	Active            bool     `json:"active"`
	ContributorsCount int64    `json:"contributors_count"`
	Progress          float64  `json:"progress"`
	TimeLeft          TimeLeft `json:"time_left"`
	IsSuccessful      bool     `json:"is_successful"`
	CanWithdraw       bool     `json:"can_withdraw"`
	CanRefund         bool     `json:"can_refund"`
	Contribution      string   `json:"contribution"`
}

// ContributorSummary is the per-account rollup of a campaign's contribution
// log: total amount across all of that account's contribution events plus the
// event count.
type ContributorSummary struct {
	Account      string `json:"account"`
	AccountShort string `json:"account_short"`
	Total        string `json:"total"`
	TotalDisplay string `json:"total_display"`
	Count        int    `json:"count"`
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
