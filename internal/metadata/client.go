// Package metadata resolves and publishes off-chain campaign metadata through
// a content-addressed store (a Pinata-compatible IPFS pinning service).
// Resolution is best-effort: failures produce a structured miss, never a hard
// error, and callers fall back to placeholder content.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrMissingPinToken indicates the client was configured without pinning
// credentials. Resolution still works; publishing does not.
var ErrMissingPinToken = errors.New("metadata: pin token is required")

const (
	defaultGatewayURL = "https://gateway.pinata.cloud/ipfs"
	defaultPinBaseURL = "https://api.pinata.cloud/pinning"
	defaultTimeout    = 15 * time.Second
)

// Options configures the metadata client.
type Options struct {
	GatewayURL     string
	PinBaseURL     string
	PinToken       string
	HTTPClient     *http.Client
	Logger         zerolog.Logger
	RequestTimeout time.Duration
}

// Client fetches and pins campaign metadata documents.
type Client struct {
	gatewayURL string
	pinBaseURL string
	pinToken   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// CampaignMetadata is the off-chain JSON document a campaign's content hash
// points at.
type CampaignMetadata struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Image          string         `json:"image,omitempty"`
	Category       string         `json:"category,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Creator        string         `json:"creator,omitempty"`
	CreatedAt      string         `json:"createdAt,omitempty"`
	AdditionalInfo map[string]any `json:"additionalInfo,omitempty"`
}

// Result is the outcome of a resolution attempt. A miss carries the error
// text for logging; callers render placeholders either way.
type Result struct {
	Success bool              `json:"success"`
	Data    *CampaignMetadata `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// PinResult is the outcome of a pin attempt.
type PinResult struct {
	Success bool   `json:"success"`
	Hash    string `json:"hash,omitempty"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UploadResult is the outcome of a composite campaign-metadata upload.
type UploadResult struct {
	Success      bool   `json:"success"`
	MetadataHash string `json:"metadata_hash,omitempty"`
	ImageHash    string `json:"image_hash,omitempty"`
	MetadataURL  string `json:"metadata_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	gateway := strings.TrimRight(opts.GatewayURL, "/")
	if gateway == "" {
		gateway = defaultGatewayURL
	}
	pinBase := strings.TrimRight(opts.PinBaseURL, "/")
	if pinBase == "" {
		pinBase = defaultPinBaseURL
	}
	return &Client{
		gatewayURL: gateway,
		pinBaseURL: pinBase,
		pinToken:   opts.PinToken,
		httpClient: httpClient,
		logger:     opts.Logger,
	}
}

// GatewayURL returns the public URL for a content hash.
func (c *Client) GatewayURL(hash string) string {
	return c.gatewayURL + "/" + hash
}

// Get fetches the metadata document for a content hash. Any transport or
// parse failure degrades to a miss.
func (c *Client) Get(ctx context.Context, hash string) Result {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return Result{Error: "empty content hash"}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GatewayURL(hash), nil)
	if err != nil {
		return Result{Error: err.Error()}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("hash", hash).Msg("metadata fetch failed")
		return Result{Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().Int("status", resp.StatusCode).Str("hash", hash).Msg("metadata fetch rejected")
		return Result{Error: fmt.Sprintf("gateway returned status %d", resp.StatusCode)}
	}
	var doc CampaignMetadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&doc); err != nil {
		return Result{Error: fmt.Sprintf("decode metadata: %v", err)}
	}
	return Result{Success: true, Data: &doc}
}

// PinJSON publishes a JSON document and returns its content hash.
func (c *Client) PinJSON(ctx context.Context, v any) PinResult {
	if c.pinToken == "" {
		return PinResult{Error: ErrMissingPinToken.Error()}
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return PinResult{Error: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pinBaseURL+"/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return PinResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doPin(req)
}

// PinFile publishes raw file bytes and returns their content hash.
func (c *Client) PinFile(ctx context.Context, name string, r io.Reader) PinResult {
	if c.pinToken == "" {
		return PinResult{Error: ErrMissingPinToken.Error()}
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return PinResult{Error: err.Error()}
	}
	if _, err := io.Copy(part, r); err != nil {
		return PinResult{Error: err.Error()}
	}
	if err := writer.Close(); err != nil {
		return PinResult{Error: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pinBaseURL+"/pinFileToIPFS", &body)
	if err != nil {
		return PinResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.doPin(req)
}

func (c *Client) doPin(req *http.Request) PinResult {
	req.Header.Set("Authorization", "Bearer "+c.pinToken)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("pin request failed")
		return PinResult{Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("pin request rejected")
		return PinResult{Error: fmt.Sprintf("pinning service returned status %d", resp.StatusCode)}
	}
	var parsed struct {
		IpfsHash string `json:"IpfsHash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return PinResult{Error: fmt.Sprintf("decode pin response: %v", err)}
	}
	if parsed.IpfsHash == "" {
		return PinResult{Error: "pinning service returned no hash"}
	}
	return PinResult{Success: true, Hash: parsed.IpfsHash, URL: c.GatewayURL(parsed.IpfsHash)}
}

// UploadCampaignMetadata pins an optional campaign image, stamps its gateway
// URL into the metadata document, and pins the document itself.
func (c *Client) UploadCampaignMetadata(ctx context.Context, meta CampaignMetadata, imageName string, image io.Reader) UploadResult {
	var imageHash string
	if image != nil {
		pinned := c.PinFile(ctx, imageName, image)
		if !pinned.Success {
			return UploadResult{Error: pinned.Error}
		}
		imageHash = pinned.Hash
		meta.Image = pinned.URL
	}
	if meta.CreatedAt == "" {
		meta.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	pinned := c.PinJSON(ctx, meta)
	if !pinned.Success {
		return UploadResult{Error: pinned.Error}
	}
	return UploadResult{
		Success:      true,
		MetadataHash: pinned.Hash,
		ImageHash:    imageHash,
		MetadataURL:  pinned.URL,
	}
}
