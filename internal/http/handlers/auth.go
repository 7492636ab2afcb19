package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fundhub/internal/domain"
	"fundhub/internal/middleware"
)

type registerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	WalletAddress string `json:"wallet_address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Role          string `json:"role"`
	KYCStatus     string `json:"kyc_status"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		WalletAddress: u.WalletAddress,
		Role:          string(u.Role),
		KYCStatus:     string(u.KYCStatus),
	}
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		a.error(w, http.StatusBadRequest, "invalid_input", "name, email and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Logger.Error().Err(err).Msg("hash password")
		a.error(w, http.StatusInternalServerError, "internal", "could not create account")
		return
	}

	user := &domain.User{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  string(hash),
		WalletAddress: strings.TrimSpace(req.WalletAddress),
		Role:          domain.UserRoleUser,
		KYCStatus:     domain.KYCStatusNone,
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			a.error(w, http.StatusConflict, "email_taken", "email is already registered")
			return
		}
		a.Logger.Error().Err(err).Msg("create user")
		a.error(w, http.StatusInternalServerError, "internal", "could not create account")
		return
	}

	token, err := middleware.SignJWT(a.JWTSecret, user.ID, string(user.Role), a.TokenTTL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token")
		a.error(w, http.StatusInternalServerError, "internal", "could not create account")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"token": token, "user": toUserResponse(user)})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := a.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		a.Logger.Error().Err(err).Msg("lookup user")
		a.error(w, http.StatusInternalServerError, "internal", "could not sign in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	token, err := middleware.SignJWT(a.JWTSecret, user.ID, string(user.Role), a.TokenTTL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token")
		a.error(w, http.StatusInternalServerError, "internal", "could not sign in")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"token": token, "user": toUserResponse(user)})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.GetByID(r.Context(), a.currentUserID(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "account no longer exists")
			return
		}
		a.Logger.Error().Err(err).Msg("lookup user")
		a.error(w, http.StatusInternalServerError, "internal", "could not load profile")
		return
	}
	a.json(w, http.StatusOK, toUserResponse(user))
}
