// Package config assembles runtime settings from the environment. A .env
// file in the working directory is loaded first when present, so local
// runs need no exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"petkeeper/internal/domain/petting"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseRpcURL    = "https://mainnet.base.org"
	DefaultListenAddr    = ":8080"
	DefaultMigrationsDir = "./migrations"
)

type Config struct {
	// WalletAddress is the bot's own wallet, always petted first.
	WalletAddress string
	BaseRpcURL    string
	// ReportSecret gates the control API (X-Report-Secret or bearer).
	ReportSecret string
	ListenAddr   string

	// RedisURL selects the Redis store; DatabaseDSN selects Postgres.
	// With neither set the bot runs on the in-memory store.
	RedisURL      string
	DatabaseDSN   string
	MigrationsDir string

	TickInterval   time.Duration
	ConfirmTimeout time.Duration
	RunOnStart     bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		WalletAddress:  strings.TrimSpace(os.Getenv("PETKEEPER_WALLET_ADDRESS")),
		BaseRpcURL:     stringEnv("PETKEEPER_BASE_RPC_URL", DefaultBaseRpcURL),
		ReportSecret:   strings.TrimSpace(os.Getenv("PETKEEPER_REPORT_SECRET")),
		ListenAddr:     stringEnv("PETKEEPER_LISTEN_ADDR", DefaultListenAddr),
		RedisURL:       strings.TrimSpace(os.Getenv("PETKEEPER_REDIS_URL")),
		DatabaseDSN:    strings.TrimSpace(os.Getenv("PETKEEPER_DB_DSN")),
		MigrationsDir:  stringEnv("PETKEEPER_MIGRATIONS_DIR", DefaultMigrationsDir),
		TickInterval:   durationEnv("PETKEEPER_TICK_INTERVAL", 15*time.Minute),
		ConfirmTimeout: durationEnv("PETKEEPER_CONFIRM_TIMEOUT", 2*time.Minute),
		RunOnStart:     boolEnv("PETKEEPER_RUN_ON_START", false),
	}

	wallet, ok := petting.NormalizeAddress(cfg.WalletAddress)
	if !ok {
		return Config{}, fmt.Errorf("PETKEEPER_WALLET_ADDRESS is required and must be a 0x-prefixed address, got %q", cfg.WalletAddress)
	}
	cfg.WalletAddress = wallet

	if cfg.ReportSecret == "" {
		return Config{}, fmt.Errorf("PETKEEPER_REPORT_SECRET is required")
	}
	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
