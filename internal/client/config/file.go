package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/flagx"
	"github.com/dmitrijs2005/gophadmin/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of Config. Absent keys leave the
// corresponding Config field untouched.
type FileConfig struct {
	APIBaseURL           string         `json:"api_base_url" yaml:"api_base_url"`
	StorageDSN           string         `json:"storage_dsn" yaml:"storage_dsn"`
	StoragePrefix        string         `json:"storage_prefix" yaml:"storage_prefix"`
	RequestTimeout       timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	NotificationTimeout  timex.Duration `json:"notification_timeout" yaml:"notification_timeout"`
	NotificationCooldown timex.Duration `json:"notification_cooldown" yaml:"notification_cooldown"`
	LoadingSkipURLs      []string       `json:"loading_skip_urls" yaml:"loading_skip_urls"`
	LogLevel             string         `json:"log_level" yaml:"log_level"`
	LogFormat            string         `json:"log_format" yaml:"log_format"`
	MetricsAddr          string         `json:"metrics_addr" yaml:"metrics_addr"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.StorageDSN, fc.StorageDSN)
	setString(&cfg.StoragePrefix, fc.StoragePrefix)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)

	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.NotificationTimeout.Duration > 0 {
		cfg.NotificationTimeout = fc.NotificationTimeout.Duration
	}
	if fc.NotificationCooldown.Duration > 0 {
		cfg.NotificationCooldown = fc.NotificationCooldown.Duration
	}
	if fc.LoadingSkipURLs != nil {
		cfg.LoadingSkipURLs = fc.LoadingSkipURLs
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
