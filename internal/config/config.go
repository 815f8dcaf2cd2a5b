package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string
	InboxDir  string

	TCAPIBaseURL   string
	TCAPIToken     string
	TCRateLimitRPS int
	TCTimeoutMs    int

	DefaultCurrency string

	WatchIntervalSec int
	WatchBatch       int
	WatchAutoExport  bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		InboxDir:  getEnv("INBOX_DIR", filepath.Join(cwd, "data", "inbox")),

		TCAPIBaseURL:   getEnv("TC_API_BASE_URL", "https://online.travelcompositor.com/resources"),
		TCAPIToken:     getEnv("TC_API_TOKEN", ""),
		TCRateLimitRPS: getEnvInt("TC_RATE_LIMIT_RPS", 5),
		TCTimeoutMs:    getEnvInt("TC_TIMEOUT_MS", 30000),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "EUR"),

		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 30),
		WatchBatch:       getEnvInt("WATCH_BATCH", 20),
		WatchAutoExport:  getEnvBool("WATCH_AUTO_EXPORT", true),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
