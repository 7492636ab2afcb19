package campaign

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"fundhub/internal/chain"
)

var (
	creatorAddr = "0x1111111111111111111111111111111111111111"
	backerAddr  = "0x2222222222222222222222222222222222222222"
)

var errReadFailed = errors.New("read failed")

type fakeReader struct {
	campaigns     map[uint64]*chain.Campaign
	contributions map[uint64]*big.Int
	failCampaign  map[uint64]bool
	failContrib   map[uint64]bool
	userCampaigns []uint64
	userContribs  []uint64
	events        []chain.ContributionEvent
}

func (f *fakeReader) Campaign(ctx context.Context, id uint64) (*chain.Campaign, error) {
	if f.failCampaign[id] {
		return nil, errReadFailed
	}
	c, ok := f.campaigns[id]
	if !ok {
		return nil, errReadFailed
	}
	return c, nil
}

func (f *fakeReader) Contribution(ctx context.Context, id uint64, account string) (*big.Int, error) {
	if f.failContrib[id] {
		return nil, errReadFailed
	}
	if v, ok := f.contributions[id]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeReader) UserCampaignIDs(ctx context.Context, account string) ([]uint64, error) {
	return f.userCampaigns, nil
}

func (f *fakeReader) UserContributionIDs(ctx context.Context, account string) ([]uint64, error) {
	return f.userContribs, nil
}

func (f *fakeReader) ActiveCampaignIDs(ctx context.Context, offset, limit uint64) ([]uint64, error) {
	ids := make([]uint64, 0, len(f.campaigns))
	for id := range f.campaigns {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeReader) CampaignContributions(ctx context.Context, id uint64) ([]chain.ContributionEvent, error) {
	return f.events, nil
}

func (f *fakeReader) ContractStats(ctx context.Context) (*chain.ContractStats, error) {
	return &chain.ContractStats{}, nil
}

func (f *fakeReader) Paused(ctx context.Context) (bool, error) { return false, nil }

func (f *fakeReader) Owner(ctx context.Context) (string, error) { return creatorAddr, nil }

func testCampaign(t *testing.T, id uint64, target, raised string, deadline int64, withdrawn bool) *chain.Campaign {
	t.Helper()
	return &chain.Campaign{
		ID:                new(big.Int).SetUint64(id),
		Creator:           common.HexToAddress(creatorAddr),
		Title:             "Campaign",
		Description:       "A campaign",
		MetadataHash:      "QmHash",
		TargetAmount:      wei(t, target),
		RaisedAmount:      wei(t, raised),
		Deadline:          big.NewInt(deadline),
		Withdrawn:         withdrawn,
		Active:            true,
		CreatedAt:         big.NewInt(deadline - 86400),
		ContributorsCount: big.NewInt(3),
	}
}

func testAggregator(reader chain.Reader) *Aggregator {
	return NewAggregator(reader, 4, zerolog.Nop())
}

func TestAggregatePartialFailure(t *testing.T) {
	future := time.Now().Add(48 * time.Hour).Unix()
	reader := &fakeReader{
		campaigns: map[uint64]*chain.Campaign{
			1: testCampaign(t, 1, "10", "5", future, false),
			2: testCampaign(t, 2, "10", "5", future, false),
			3: testCampaign(t, 3, "10", "5", future, false),
		},
		failCampaign: map[uint64]bool{2: true},
	}
	agg := testAggregator(reader)
	defer agg.Close()

	batch, err := agg.Aggregate(context.Background(), []uint64{1, 2, 3}, "")
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if len(batch.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(batch.Items))
	}
	if batch.Items[0].ID != 1 || batch.Items[1].ID != 3 {
		t.Fatalf("got ids [%d %d], want [1 3]", batch.Items[0].ID, batch.Items[1].ID)
	}
	for _, item := range batch.Items {
		if item.TargetAmount == "" || item.RaisedAmount == "" || item.Title == "" {
			t.Fatalf("item %d not fully populated: %+v", item.ID, item)
		}
	}
}

func TestAggregatePreservesInputOrder(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	reader := &fakeReader{campaigns: map[uint64]*chain.Campaign{
		1: testCampaign(t, 1, "10", "1", future, false),
		2: testCampaign(t, 2, "10", "1", future, false),
		3: testCampaign(t, 3, "10", "1", future, false),
	}}
	agg := testAggregator(reader)
	defer agg.Close()

	batch, err := agg.Aggregate(context.Background(), []uint64{3, 1, 2}, "")
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	want := []uint64{3, 1, 2}
	for i, item := range batch.Items {
		if item.ID != want[i] {
			t.Fatalf("position %d: got id %d, want %d", i, item.ID, want[i])
		}
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := testAggregator(&fakeReader{})
	defer agg.Close()

	batch, err := agg.Aggregate(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if len(batch.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(batch.Items))
	}
}

func TestAggregateDerivedStateForCreator(t *testing.T) {
	past := time.Now().Add(-time.Hour).Unix()
	reader := &fakeReader{campaigns: map[uint64]*chain.Campaign{
		1: testCampaign(t, 1, "10", "10", past, false),
	}}
	agg := testAggregator(reader)
	defer agg.Close()

	batch, err := agg.Aggregate(context.Background(), []uint64{1}, creatorAddr)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	vm := batch.Items[0]
	if !vm.TimeLeft.Expired {
		t.Fatal("campaign past deadline should be expired")
	}
	if !vm.IsSuccessful || vm.Progress != 100 {
		t.Fatalf("raised == target: successful=%v progress=%v", vm.IsSuccessful, vm.Progress)
	}
	if !vm.CanWithdraw {
		t.Fatal("creator of expired successful unwithdrawn campaign should be able to withdraw")
	}

	// After withdrawal the prediction flips off.
	reader.campaigns[1].Withdrawn = true
	batch, err = agg.Aggregate(context.Background(), []uint64{1}, creatorAddr)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if batch.Items[0].CanWithdraw {
		t.Fatal("withdrawn campaign should not allow another withdrawal")
	}
}

func TestAggregateDerivedStateForBacker(t *testing.T) {
	past := time.Now().Add(-time.Hour).Unix()
	reader := &fakeReader{
		campaigns: map[uint64]*chain.Campaign{
			1: testCampaign(t, 1, "10", "4", past, false),
		},
		contributions: map[uint64]*big.Int{1: wei(t, "2")},
	}
	agg := testAggregator(reader)
	defer agg.Close()

	batch, err := agg.Aggregate(context.Background(), []uint64{1}, backerAddr)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	vm := batch.Items[0]
	if vm.CanWithdraw {
		t.Fatal("backer must not see can_withdraw")
	}
	if !vm.CanRefund {
		t.Fatal("backer of expired failed campaign should see can_refund")
	}
	if vm.Contribution != wei(t, "2").String() {
		t.Fatalf("contribution = %s, want %s", vm.Contribution, wei(t, "2"))
	}
}

func TestAggregateContributionReadFailureDegradesToZero(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	reader := &fakeReader{
		campaigns:   map[uint64]*chain.Campaign{1: testCampaign(t, 1, "10", "4", future, false)},
		failContrib: map[uint64]bool{1: true},
	}
	agg := testAggregator(reader)
	defer agg.Close()

	batch, err := agg.Aggregate(context.Background(), []uint64{1}, backerAddr)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if len(batch.Items) != 1 {
		t.Fatalf("campaign should survive a failed contribution read, got %d items", len(batch.Items))
	}
	if batch.Items[0].Contribution != "0" {
		t.Fatalf("contribution = %s, want 0", batch.Items[0].Contribution)
	}
}

func TestAggregateContributionsFiltersZeroAndFailed(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	reader := &fakeReader{
		campaigns: map[uint64]*chain.Campaign{
			1: testCampaign(t, 1, "10", "4", future, false),
			2: testCampaign(t, 2, "10", "4", future, false),
			3: testCampaign(t, 3, "10", "4", future, false),
		},
		contributions: map[uint64]*big.Int{1: wei(t, "5"), 2: big.NewInt(0)},
		failContrib:   map[uint64]bool{3: true},
		userContribs:  []uint64{1, 2, 3},
	}
	agg := testAggregator(reader)
	defer agg.Close()

	batch, err := agg.AggregateContributions(context.Background(), backerAddr)
	if err != nil {
		t.Fatalf("AggregateContributions() error: %v", err)
	}
	if len(batch.Items) != 1 || batch.Items[0].ID != 1 {
		t.Fatalf("got %+v, want only campaign 1", batch.Items)
	}
}

func TestAggregateUserCampaigns(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	reader := &fakeReader{
		campaigns: map[uint64]*chain.Campaign{
			4: testCampaign(t, 4, "10", "4", future, false),
			7: testCampaign(t, 7, "10", "4", future, false),
		},
		userCampaigns: []uint64{7, 4},
	}
	agg := testAggregator(reader)
	defer agg.Close()

	batch, err := agg.AggregateUserCampaigns(context.Background(), creatorAddr)
	if err != nil {
		t.Fatalf("AggregateUserCampaigns() error: %v", err)
	}
	if len(batch.Items) != 2 || batch.Items[0].ID != 7 || batch.Items[1].ID != 4 {
		t.Fatalf("got %+v, want ids [7 4]", batch.Items)
	}
}

func TestSequenceIncreasesPerDispatch(t *testing.T) {
	agg := testAggregator(&fakeReader{})
	defer agg.Close()

	b1, _ := agg.Aggregate(context.Background(), nil, "")
	b2, _ := agg.Aggregate(context.Background(), nil, "")
	if b2.Seq <= b1.Seq {
		t.Fatalf("sequence did not increase: %d then %d", b1.Seq, b2.Seq)
	}
	if agg.Sequence() != b2.Seq {
		t.Fatalf("Sequence() = %d, want %d", agg.Sequence(), b2.Seq)
	}
}

func TestContributorSummaries(t *testing.T) {
	events := []chain.ContributionEvent{
		{Contributor: common.HexToAddress(backerAddr), Amount: wei(t, "1"), Timestamp: big.NewInt(100)},
		{Contributor: common.HexToAddress(creatorAddr), Amount: wei(t, "3"), Timestamp: big.NewInt(200)},
		{Contributor: common.HexToAddress(backerAddr), Amount: wei(t, "2"), Timestamp: big.NewInt(300)},
	}
	summaries := ContributorSummaries(events)
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	first := summaries[0]
	if first.Account != common.HexToAddress(backerAddr).Hex() {
		t.Fatalf("first account = %s, want backer (first appearance order)", first.Account)
	}
	if first.Total != wei(t, "3").String() || first.Count != 2 {
		t.Fatalf("backer summary = %+v, want total 3 tokens over 2 events", first)
	}
	if summaries[1].Count != 1 || summaries[1].Total != wei(t, "3").String() {
		t.Fatalf("creator summary = %+v", summaries[1])
	}
}

func TestContributorSummariesEmpty(t *testing.T) {
	if got := ContributorSummaries(nil); len(got) != 0 {
		t.Fatalf("got %d summaries, want 0", len(got))
	}
}
