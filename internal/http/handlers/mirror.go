package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"fundhub/internal/domain"
)

type mirrorCreateRequest struct {
	ChainID         *int64   `json:"chain_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"image_url"`
	MetadataHash    string   `json:"metadata_hash"`
	TargetAmount    string   `json:"target_amount"`
	DurationDays    int      `json:"duration_days"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	CreatorWallet   string   `json:"creator_wallet"`
	ContractAddress string   `json:"contract_address"`
}

type mirrorResponse struct {
	ID            string   `json:"id"`
	ChainID       *int64   `json:"chain_id,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url,omitempty"`
	MetadataHash  string   `json:"metadata_hash,omitempty"`
	TargetAmount  string   `json:"target_amount"`
	DurationDays  int      `json:"duration_days"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CreatorWallet string   `json:"creator_wallet"`
	Approved      bool     `json:"approved"`
	CreatedAt     string   `json:"created_at"`
}

func toMirrorResponse(c *domain.MirrorCampaign) mirrorResponse {
	return mirrorResponse{
		ID:            c.ID,
		ChainID:       c.ChainID,
		Title:         c.Title,
		Description:   c.Description,
		ImageURL:      c.ImageURL,
		MetadataHash:  c.MetadataHash,
		TargetAmount:  c.TargetAmount,
		DurationDays:  c.DurationDays,
		Category:      c.Category,
		Tags:          c.Tags,
		CreatorWallet: c.CreatorWallet,
		Approved:      c.Approved,
		CreatedAt:     c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// MirrorCreate records the off-chain copy of a freshly created campaign. New
// records start unapproved and stay off the public listing until an admin
// approves them.
func (a *App) MirrorCreate(w http.ResponseWriter, r *http.Request) {
	var req mirrorCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.TargetAmount == "" || req.DurationDays <= 0 {
		a.error(w, http.StatusBadRequest, "invalid_input", "title, target_amount and a positive duration_days are required")
		return
	}
	if req.CreatorWallet != "" && !common.IsHexAddress(req.CreatorWallet) {
		a.error(w, http.StatusBadRequest, "invalid_address", "creator_wallet must be a hex account address")
		return
	}

	record := &domain.MirrorCampaign{
		ID:              uuid.NewString(),
		ChainID:         req.ChainID,
		Title:           req.Title,
		Description:     strings.TrimSpace(req.Description),
		ImageURL:        req.ImageURL,
		MetadataHash:    req.MetadataHash,
		TargetAmount:    req.TargetAmount,
		DurationDays:    req.DurationDays,
		Category:        req.Category,
		Tags:            req.Tags,
		CreatorWallet:   req.CreatorWallet,
		ContractAddress: req.ContractAddress,
	}
	if err := a.Mirror.Create(r.Context(), record); err != nil {
		a.Logger.Error().Err(err).Msg("create mirror campaign")
		a.error(w, http.StatusInternalServerError, "internal", "could not save campaign")
		return
	}
	a.json(w, http.StatusCreated, toMirrorResponse(record))
}

// MirrorList serves the approved off-chain records.
func (a *App) MirrorList(w http.ResponseWriter, r *http.Request) {
	records, err := a.Mirror.List(r.Context(), true)
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
