package campaign

import (
	"context"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/rs/zerolog"

	"fundhub/internal/chain"
	"fundhub/internal/numeric"
)

const defaultWorkers = 8

// Batch is the result of one aggregation pass. Seq is a freshness token:
// it increases monotonically per dispatch, so a caller juggling overlapping
// refreshes keeps only the batch whose Seq is the highest it has seen.
type Batch struct {
	Seq   uint64      `json:"seq"`
	Items []ViewModel `json:"items"`
}

// Aggregator joins per-campaign contract reads with per-viewer contribution
// reads and produces ordered view-model batches. Each invocation is
// independent; the aggregator owns no shared mutable state beyond the worker
// pool and the dispatch counter.
type Aggregator struct {
	reader chain.Reader
	pool   pond.Pool
	logger zerolog.Logger
	now    func() time.Time
	seq    atomic.Uint64
}

// NewAggregator builds an aggregator reading through the given contract
// reader. workers bounds how many chain reads run concurrently per batch.
func NewAggregator(reader chain.Reader, workers int, logger zerolog.Logger) *Aggregator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Aggregator{
		reader: reader,
		pool:   pond.NewPool(workers),
		logger: logger,
		now:    time.Now,
	}
}

// Close releases the worker pool.
func (a *Aggregator) Close() {
	a.pool.StopAndWait()
}

// Sequence returns the most recently dispatched batch sequence number.
func (a *Aggregator) Sequence() uint64 {
	return a.seq.Load()
}

// Aggregate reads every id concurrently and returns the view models in input
// order. A failed campaign read drops that id from the output; it never aborts
// the rest of the batch. When viewer is set, the viewer's contribution is
// read alongside each campaign to fill the gating booleans; a failed
// contribution read degrades to a zero contribution rather than dropping the
// campaign.
func (a *Aggregator) Aggregate(ctx context.Context, ids []uint64, viewer string) (Batch, error) {
	return a.aggregate(ctx, ids, viewer, false)
}

// AggregateContributions builds the "campaigns this viewer backed" list: the
// viewer's contribution ids are resolved first, then each campaign is paired
// with the viewer's contribution amount, and only pairs where both reads
// succeed and the contribution is strictly positive are retained.
func (a *Aggregator) AggregateContributions(ctx context.Context, viewer string) (Batch, error) {
	ids, err := a.reader.UserContributionIDs(ctx, viewer)
	if err != nil {
		return Batch{Seq: a.seq.Add(1)}, err
	}
	return a.aggregate(ctx, ids, viewer, true)
}

// AggregateUserCampaigns builds the "campaigns this account created" list.
func (a *Aggregator) AggregateUserCampaigns(ctx context.Context, creator string) (Batch, error) {
	ids, err := a.reader.UserCampaignIDs(ctx, creator)
	if err != nil {
		return Batch{Seq: a.seq.Add(1)}, err
	}
	return a.aggregate(ctx, ids, creator, false)
}

func (a *Aggregator) aggregate(ctx context.Context, ids []uint64, viewer string, requireContribution bool) (Batch, error) {
	seq := a.seq.Add(1)
	if len(ids) == 0 {
		return Batch{Seq: seq, Items: []ViewModel{}}, nil
	}

	now := a.now()
	results := make([]*ViewModel, len(ids))

	group := a.pool.NewGroupContext(ctx)
	gctx := group.Context()
	for i, id := range ids {
		group.Submit(func() {
			if gctx.Err() != nil {
				return
			}
			c, err := a.reader.Campaign(gctx, id)
			if err != nil {
				a.logger.Warn().Err(err).Uint64("campaign_id", id).Msg("campaign read failed, dropping from batch")
				return
			}
			var contribution *big.Int
			if viewer != "" {
				contribution, err = a.reader.Contribution(gctx, id, viewer)
				if err != nil {
					if requireContribution {
						a.logger.Warn().Err(err).Uint64("campaign_id", id).Msg("contribution read failed, dropping from batch")
						return
					}
					a.logger.Debug().Err(err).Uint64("campaign_id", id).Msg("contribution read failed, treating as zero")
					contribution = nil
				}
			}
			if requireContribution && numeric.ToBigInt(contribution).Sign() <= 0 {
				return
			}
			vm := a.viewModel(c, viewer, contribution, now)
			results[i] = &vm
		})
	}
	if err := group.Wait(); err != nil && ctx.Err() != nil {
		return Batch{Seq: seq}, ctx.Err()
	}

	items := make([]ViewModel, 0, len(ids))
	for _, r := range results {
		if r != nil {
			items = append(items, *r)
		}
	}
	return Batch{Seq: seq, Items: items}, nil
}

// viewModel normalizes one raw campaign record and computes its derived state
// for the given viewer.
func (a *Aggregator) viewModel(c *chain.Campaign, viewer string, contribution *big.Int, now time.Time) ViewModel {
	target := numeric.ToBigInt(c.TargetAmount)
	raised := numeric.ToBigInt(c.RaisedAmount)
	contrib := numeric.ToBigInt(contribution)
	creator := c.Creator.Hex()

	timeLeft := ComputeTimeLeft(numeric.ToInt64(c.Deadline), now)
	successful := IsSuccessful(raised, target)
	isCreator := viewer != "" && strings.EqualFold(creator, viewer)

	return ViewModel{
		ID:                uint64(numeric.ToInt64(c.ID)),
		Creator:           creator,
		CreatorShort:      numeric.ShortAddress(creator),
		Title:             c.Title,
		Description:       c.Description,
		MetadataHash:      c.MetadataHash,
		TargetAmount:      target.String(),
		RaisedAmount:      raised.String(),
		TargetDisplay:     numeric.FormatWei(target),
		RaisedDisplay:     numeric.FormatWei(raised),
		Deadline:          numeric.ToInt64(c.Deadline),
		CreatedAt:         numeric.ToInt64(c.CreatedAt),
		Withdrawn:         c.Withdrawn,
		Active:            c.Active,
		ContributorsCount: numeric.ToInt64(c.ContributorsCount),
		Progress:          Progress(raised, target),
		TimeLeft:          timeLeft,
		IsSuccessful:      successful,
		CanWithdraw:       CanWithdraw(isCreator, timeLeft.Expired, successful, c.Withdrawn),
		CanRefund:         CanRefund(isCreator, timeLeft.Expired, successful, contrib),
		Contribution:      contrib.String(),
	}
}
