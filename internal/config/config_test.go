package config

import (
	"testing"
	"time"
)

const wallet = "0x9A3E95F448F3dab367Dd9213d4554444Faa272F1"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PETKEEPER_WALLET_ADDRESS", wallet)
	t.Setenv("PETKEEPER_REPORT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WalletAddress != "0x9a3e95f448f3dab367dd9213d4554444faa272f1" {
		t.Fatalf("wallet not normalized: %q", cfg.WalletAddress)
	}
	if cfg.BaseRpcURL != DefaultBaseRpcURL {
		t.Fatalf("unexpected rpc url: %q", cfg.BaseRpcURL)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.TickInterval != 15*time.Minute {
		t.Fatalf("unexpected tick interval: %v", cfg.TickInterval)
	}
	if cfg.ConfirmTimeout != 2*time.Minute {
		t.Fatalf("unexpected confirm timeout: %v", cfg.ConfirmTimeout)
	}
	if cfg.RunOnStart {
		t.Fatalf("RunOnStart should default to false")
	}
}

func TestLoad_MissingWallet(t *testing.T) {
	t.Setenv("PETKEEPER_WALLET_ADDRESS", "")
	t.Setenv("PETKEEPER_REPORT_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing wallet")
	}
}

func TestLoad_MalformedWallet(t *testing.T) {
	t.Setenv("PETKEEPER_WALLET_ADDRESS", "9a3e95f448f3")
	t.Setenv("PETKEEPER_REPORT_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed wallet")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("PETKEEPER_WALLET_ADDRESS", wallet)
	t.Setenv("PETKEEPER_REPORT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PETKEEPER_TICK_INTERVAL", "5m")
	t.Setenv("PETKEEPER_RUN_ON_START", "true")
	t.Setenv("PETKEEPER_LISTEN_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TickInterval != 5*time.Minute {
		t.Fatalf("unexpected tick interval: %v", cfg.TickInterval)
	}
	if !cfg.RunOnStart {
		t.Fatalf("expected RunOnStart override")
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("PETKEEPER_TICK_INTERVAL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TickInterval != 15*time.Minute {
		t.Fatalf("expected fallback interval, got %v", cfg.TickInterval)
	}
}
