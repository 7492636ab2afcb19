package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fundhub/internal/domain"
)

type walletMutationRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type walletTxResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Amount       int64  `json:"amount"`
	Description  string `json:"description,omitempty"`
	BalanceAfter int64  `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}

func (a *App) WalletGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	wallet, err := a.Wallets.Get(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load wallet")
		a.error(w, http.StatusInternalServerError, "internal", "could not load wallet")
		return
	}
	txs, err := a.Wallets.Transactions(r.Context(), userID, 0)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load wallet transactions")
		a.error(w, http.StatusInternalServerError, "internal", "could not load wallet")
		return
	}
	out := make([]walletTxResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, walletTxResponse{
			ID:           tx.ID,
			Type:         string(tx.Type),
			Amount:       tx.Amount,
			Description:  tx.Description,
			BalanceAfter: tx.BalanceAfter,
			CreatedAt:    tx.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"balance": wallet.Balance, "transactions": out})
}

func (a *App) WalletCredit(w http.ResponseWriter, r *http.Request) {
	a.walletMutate(w, r, domain.TxTypeCredit)
}

func (a *App) WalletDebit(w http.ResponseWriter, r *http.Request) {
	a.walletMutate(w, r, domain.TxTypeDebit)
}

func (a *App) walletMutate(w http.ResponseWriter, r *http.Request, kind domain.TxType) {
	var req walletMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive integer")
		return
	}
	desc := strings.TrimSpace(req.Description)

	var (
		balance int64
		err     error
	)
	switch kind {
	case domain.TxTypeCredit:
		balance, err = a.Wallets.Credit(r.Context(), a.currentUserID(r), req.Amount, desc)
	default:
		balance, err = a.Wallets.Debit(r.Context(), a.currentUserID(r), req.Amount, desc)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			a.error(w, http.StatusBadRequest, "insufficient_balance", "balance is too low for this debit")
			return
		}
		a.Logger.Error().Err(err).Str("type", string(kind)).Msg("wallet mutation")
		a.error(w, http.StatusInternalServerError, "internal", "could not update wallet")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"balance": balance})
}
