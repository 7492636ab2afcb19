package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedKYCIDTypes = map[string]bool{
	"passport":        true,
	"national_id":     true,
	"drivers_license": true,
}

// KYCSubmit stores the identity document and selfie for review and moves the
// account into the pending verification state.
func (a *App) KYCSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "expected a multipart form")
		return
	}
	idType := strings.TrimSpace(r.FormValue("id_type"))
	if !allowedKYCIDTypes[idType] {
		a.error(w, http.StatusBadRequest, "invalid_input", "id_type must be passport, national_id or drivers_license")
		return
	}

	userID := a.currentUserID(r)
	idPath, err := a.storeKYCFile(r, "id_image", userID)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_input", "id_image file is required")
		return
	}
	selfiePath, err := a.storeKYCFile(r, "selfie", userID)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_input", "selfie file is required")
		return
	}

	if err := a.Users.UpdateKYC(r.Context(), userID, idType, idPath, selfiePath); err != nil {
		a.Logger.Error().Err(err).Msg("update kyc")
		a.error(w, http.StatusInternalServerError, "internal", "could not submit verification")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"kyc_status": "pending"})
}

func (a *App) storeKYCFile(r *http.Request, field, userID string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return a.writeUpload(r, file, header, fmt.Sprintf("kyc/%s/%s-%s", userID, field, uuid.NewString()))
}

func (a *App) writeUpload(r *http.Request, file multipart.File, header *multipart.FileHeader, keyPrefix string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", err
	}
	key := keyPrefix + strings.ToLower(filepath.Ext(header.Filename))
	return a.Files.Write(r.Context(), key, data)
}
