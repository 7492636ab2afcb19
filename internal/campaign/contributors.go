package campaign

import (
	"math/big"

	"fundhub/internal/chain"
	"fundhub/internal/numeric"
)

// ContributorSummaries rolls a raw contribution-event list up into one entry
// per account, ordered by each account's first appearance in the list.
func ContributorSummaries(events []chain.ContributionEvent) []ContributorSummary {
	totals := make(map[string]*big.Int, len(events))
	counts := make(map[string]int, len(events))
	order := make([]string, 0, len(events))

	for _, ev := range events {
		account := ev.Contributor.Hex()
		if _, seen := totals[account]; !seen {
			totals[account] = new(big.Int)
			order = append(order, account)
		}
		totals[account].Add(totals[account], numeric.ToBigInt(ev.Amount))
		counts[account]++
	}

	out := make([]ContributorSummary, 0, len(order))
	for _, account := range order {
		out = append(out, ContributorSummary{
			Account:      account,
			AccountShort: numeric.ShortAddress(account),
			Total:        totals[account].String(),
			TotalDisplay: numeric.FormatWei(totals[account]),
			Count:        counts[account],
		})
	}
	return out
}
