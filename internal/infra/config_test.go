package infra

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/fundhub")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RPC_URL", "http://localhost:8545")
	t.Setenv("CONTRACT_ADDRESS", "0x1111111111111111111111111111111111111111")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AggregatorWorkers != 8 {
		t.Fatalf("AggregatorWorkers = %d, want 8", cfg.AggregatorWorkers)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigRequiredVars(t *testing.T) {
	required := []string{"DATABASE_URL", "JWT_SECRET", "RPC_URL", "CONTRACT_ADDRESS"}
	for _, name := range required {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(name, "")
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("LoadConfig() expected error when %s is missing", name)
			}
		})
	}
}

func TestLoadConfigOriginList(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}
