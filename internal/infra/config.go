package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	JWTSecret          string
	TokenTTL           time.Duration
	RPCURL             string
	ContractAddress    string
	ChainCallTimeout   time.Duration
	AggregatorWorkers  int
	IPFSGatewayURL     string
	IPFSPinBaseURL     string
	IPFSPinToken       string
	UploadDir          string
	AllowedOrigins     []string
	MirrorSyncInterval time.Duration
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           time.Hour * time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)),
		RPCURL:             os.Getenv("RPC_URL"),
		ContractAddress:    os.Getenv("CONTRACT_ADDRESS"),
		ChainCallTimeout:   time.Second * time.Duration(getEnvInt("CHAIN_CALL_TIMEOUT_SECONDS", 10)),
		AggregatorWorkers:  getEnvInt("AGGREGATOR_WORKERS", 8),
		IPFSGatewayURL:     getEnv("IPFS_GATEWAY_URL", "https://gateway.pinata.cloud/ipfs"),
		IPFSPinBaseURL:     getEnv("IPFS_PIN_BASE_URL", "https://api.pinata.cloud/pinning"),
		IPFSPinToken:       os.Getenv("IPFS_PIN_TOKEN"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		MirrorSyncInterval: time.Second * time.Duration(getEnvInt("MIRROR_SYNC_INTERVAL_SECONDS", 60)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC_URL is required")
	}

	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("CONTRACT_ADDRESS is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
