package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL         string
	ListenAddr     string
	StoreDriver    string
	StoreDSN       string
	LogLevel       string
	RequestTimeout time.Duration
	KafkaBrokers   []string
}

var ErrMissingAPIURL = errors.New("missing required env API_URL")

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		APIURL:         os.Getenv("API_URL"),
		ListenAddr:     EnvDefault("LISTEN_ADDR", ":8090"),
		StoreDriver:    strings.ToLower(EnvDefault("STORE_DRIVER", "sqlite")),
		StoreDSN:       EnvDefault("STORE_DSN", "wimpy.db"),
		LogLevel:       EnvDefault("LOG_LEVEL", "info"),
		RequestTimeout: time.Duration(EnvIntDefault("REQUEST_TIMEOUT", 15)) * time.Second,
		KafkaBrokers:   CSV(os.Getenv("KAFKA_BROKERS")),
	}

	if cfg.APIURL == "" {
		return nil, ErrMissingAPIURL
	}
	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "postgres" {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	return cfg, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
