package handlers

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"fundhub/internal/campaign"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

func pageParams(r *http.Request) (offset, limit uint64) {
	offset, _ = strconv.ParseUint(r.URL.Query().Get("offset"), 10, 64)
	limit, _ = strconv.ParseUint(r.URL.Query().Get("limit"), 10, 64)
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}

// CampaignsList serves the active-campaign listing. The viewer query parameter
// is optional; when present each item carries that address's contribution and
// gating flags.
func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	ids, err := a.Reader.ActiveCampaignIDs(r.Context(), offset, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list active campaigns")
		a.error(w, http.StatusBadGateway, "chain_unavailable", "could not reach the contract")
		return
	}
	batch, err := a.Aggregator.Aggregate(r.Context(), ids, r.URL.Query().Get("viewer"))
	if err != nil {
		a.error(w, http.StatusBadGateway, "chain_unavailable", "could not reach the contract")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"seq": batch.Seq, "items": batch.Items})
}

// CampaignGet serves one campaign with its contributor roll-up. A failed
// contributor read degrades to an empty list; the campaign read is required.
func (a *App) CampaignGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_id", "campaign id must be a non-negative integer")
		return
	}
	batch, err := a.Aggregator.Aggregate(r.Context(), []uint64{id}, r.URL.Query().Get("viewer"))
	if err != nil || len(batch.Items) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "campaign not found")
		return
	}

	contributors := []campaign.ContributorSummary{}
	if events, err := a.Reader.CampaignContributions(r.Context(), id); err != nil {
		a.Logger.Warn().Err(err).Uint64("campaign_id", id).Msg("read contributors")
	} else {
		contributors = campaign.ContributorSummaries(events)
	}
	a.json(w, http.StatusOK, map[string]any{
		"seq":          batch.Seq,
		"campaign":     batch.Items[0],
		"contributors": contributors,
	})
}

// CampaignMetadata resolves a campaign's off-chain document. The response is
// always 200 with a success flag so a gateway outage never breaks the page.
func (a *App) CampaignMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_id", "campaign id must be a non-negative integer")
		return
	}
	c, err := a.Reader.Campaign(r.Context(), id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "campaign not found")
		return
	}
	a.json(w, http.StatusOK, a.Metadata.Get(r.Context(), c.MetadataHash))
}

// UserCampaigns lists the campaigns created by one address.
func (a *App) UserCampaigns(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if !common.IsHexAddress(address) {
		a.error(w, http.StatusBadRequest, "invalid_address", "address must be a hex account address")
		return
	}
	batch, err := a.Aggregator.AggregateUserCampaigns(r.Context(), address)
	if err != nil {
		a.error(w, http.StatusBadGateway, "chain_unavailable", "could not reach the contract")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"seq": batch.Seq, "items": batch.Items})
}

// UserContributions lists the campaigns one address has backed, each paired
// with that address's contribution.
func (a *App) UserContributions(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if !common.IsHexAddress(address) {
		a.error(w, http.StatusBadRequest, "invalid_address", "address must be a hex account address")
		return
	}
	batch, err := a.Aggregator.AggregateContributions(r.Context(), address)
	if err != nil {
		a.error(w, http.StatusBadGateway, "chain_unavailable", "could not reach the contract")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"seq": batch.Seq, "items": batch.Items})
}
