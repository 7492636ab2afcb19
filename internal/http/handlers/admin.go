package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fundhub/internal/domain"
	"fundhub/internal/numeric"
)

// AdminMirrorList serves every off-chain record, including unapproved ones.
func (a *App) AdminMirrorList(w http.ResponseWriter, r *http.Request) {
	records, err := a.Mirror.List(r.Context(), false)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list mirror campaigns")
		a.error(w, http.StatusInternalServerError, "internal", "could not load campaigns")
		return
	}
	out := make([]mirrorResponse, 0, len(records))
	for i := range records {
		out = append(out, toMirrorResponse(&records[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// AdminMirrorApprove flips one record onto the public listing.
func (a *App) AdminMirrorApprove(w http.ResponseWriter, r *http.Request) {
	if err := a.Mirror.Approve(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "campaign not found")
			return
		}
		a.Logger.Error().Err(err).Msg("approve mirror campaign")
		a.error(w, http.StatusInternalServerError, "internal", "could not approve campaign")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"approved": true})
}

// AdminContract reports contract-wide counters plus the pause flag and owner.
// Each read fails independently; failed sections come back null so one bad
// call does not blank the whole dashboard.
func (a *App) AdminContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := map[string]any{"stats": nil, "paused": nil, "owner": nil}

	if stats, err := a.Reader.ContractStats(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("read contract stats")
	} else {
		resp["stats"] = map[string]any{
			"total_campaigns":  numeric.ToInt64(stats.TotalCampaigns),
			"total_fees":       numeric.ToBigInt(stats.TotalFees).String(),
			"contract_balance": numeric.ToBigInt(stats.ContractBalance).String(),
		}
	}
	if paused, err := a.Reader.Paused(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("read pause flag")
	} else {
		resp["paused"] = paused
	}
	if owner, err := a.Reader.Owner(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("read owner")
	} else {
		resp["owner"] = owner
	}
	a.json(w, http.StatusOK, resp)
}
