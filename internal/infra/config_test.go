package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig succeeded without DATABASE_URL")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("POLL_INTERVAL_MS", "")
	t.Setenv("RECONCILE_BATCH_SIZE", "")
	t.Setenv("RECONCILE_SCAN_LIMIT", "")
	t.Setenv("MESH_FETCH_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.BatchSize != 10 {
		t.Fatalf("BatchSize = %d, want 10", cfg.BatchSize)
	}
	if cfg.BatchDelay != 200*time.Millisecond {
		t.Fatalf("BatchDelay = %v, want 200ms", cfg.BatchDelay)
	}
	if cfg.ScanLimit != 1000 {
		t.Fatalf("ScanLimit = %d, want 1000", cfg.ScanLimit)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Fatalf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("POLL_INTERVAL_MS", "1500")
	t.Setenv("RECONCILE_BATCH_SIZE", "25")
	t.Setenv("STORAGE_BASE_URL", "https://cdn.internal/assets/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PollInterval != 1500*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 1.5s", cfg.PollInterval)
	}
	if cfg.BatchSize != 25 {
		t.Fatalf("BatchSize = %d, want 25", cfg.BatchSize)
	}
	if cfg.StorageBaseURL != "https://cdn.internal/assets/" {
		t.Fatalf("StorageBaseURL = %q", cfg.StorageBaseURL)
	}
}

func TestLoadConfigSanitizesNonPositiveKnobs(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("RECONCILE_BATCH_SIZE", "-3")
	t.Setenv("RECONCILE_SCAN_LIMIT", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BatchSize != 10 {
		t.Fatalf("BatchSize = %d, want fallback 10", cfg.BatchSize)
	}
	if cfg.ScanLimit != 1000 {
		t.Fatalf("ScanLimit = %d, want fallback 1000", cfg.ScanLimit)
	}
}
