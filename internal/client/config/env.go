package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// EnvConfig maps ADMIN_* variables. Slices are separated with ';'.
type EnvConfig struct {
	APIBaseURL           string        `env:"ADMIN_API_URL"`
	StorageDSN           string        `env:"ADMIN_STORAGE_DSN"`
	StoragePrefix        string        `env:"ADMIN_STORAGE_PREFIX"`
	RequestTimeout       time.Duration `env:"ADMIN_REQUEST_TIMEOUT,strict"`
	NotificationTimeout  time.Duration `env:"ADMIN_NOTIFICATION_TIMEOUT,strict"`
	NotificationCooldown time.Duration `env:"ADMIN_NOTIFICATION_COOLDOWN,strict"`
	LoadingSkipURLs      []string      `env:"ADMIN_LOADING_SKIP_URLS"`
	LogLevel             string        `env:"ADMIN_LOG_LEVEL"`
	LogFormat            string        `env:"ADMIN_LOG_FORMAT"`
	MetricsAddr          string        `env:"ADMIN_METRICS_ADDR"`
}

func parseEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return fmt.Errorf("load %s: %w", dotenv, err)
			}
		}
	}

	var ec EnvConfig
	if err := envdecode.Decode(&ec); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("decode environment: %w", err)
	}

	setString(&cfg.APIBaseURL, ec.APIBaseURL)
	setString(&cfg.StorageDSN, ec.StorageDSN)
	setString(&cfg.StoragePrefix, ec.StoragePrefix)
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.LogFormat, ec.LogFormat)
	setString(&cfg.MetricsAddr, ec.MetricsAddr)

	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.NotificationTimeout > 0 {
		cfg.NotificationTimeout = ec.NotificationTimeout
	}
	if ec.NotificationCooldown > 0 {
		cfg.NotificationCooldown = ec.NotificationCooldown
	}
	if len(ec.LoadingSkipURLs) > 0 {
		cfg.LoadingSkipURLs = ec.LoadingSkipURLs
	}
	return nil
}
