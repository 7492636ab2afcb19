package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"fundhub/internal/metadata"
)

const maxUploadBytes = 10 << 20

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// MetadataUpload pins a campaign's metadata document, optionally with its
// cover image, and returns the content hash the caller stores on chain.
func (a *App) MetadataUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "expected a multipart form")
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		a.error(w, http.StatusBadRequest, "invalid_input", "title is required")
		return
	}
	meta := metadata.CampaignMetadata{
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Tags:        splitTags(r.FormValue("tags")),
		Creator:     strings.TrimSpace(r.FormValue("creator")),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	var (
		imageName string
		image     io.Reader
	)
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageName = header.Filename
		image = file
	}

	res := a.Metadata.UploadCampaignMetadata(r.Context(), meta, imageName, image)
	if !res.Success {
		a.Logger.Error().Str("reason", res.Error).Msg("metadata upload")
		a.error(w, http.StatusBadGateway, "provider_failure", "could not pin metadata")
		return
	}
	a.json(w, http.StatusOK, res)
}
