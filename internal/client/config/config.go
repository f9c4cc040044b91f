package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the admin console.
type Config struct {
	// APIBaseURL is prefixed to every relative request path.
	APIBaseURL string
	// StorageDSN locates the SQLite database backing the key-value store.
	StorageDSN string
	// StoragePrefix namespaces every persisted key.
	StoragePrefix string

	RequestTimeout       time.Duration
	NotificationTimeout  time.Duration
	NotificationCooldown time.Duration

	// LoadingSkipURLs are URL substrings whose requests do not toggle the
	// loading indicator.
	LoadingSkipURLs []string

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the Prometheus endpoint when non-empty.
	MetricsAddr string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.StorageDSN = "admin.db"
	c.StoragePrefix = "gophadmin_"
	c.RequestTimeout = 30 * time.Second
	c.NotificationTimeout = 4500 * time.Millisecond
	c.NotificationCooldown = 1500 * time.Millisecond
	c.LoadingSkipURLs = nil
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MetricsAddr = ""
}

const envFile = ".env"

// LoadConfig builds a Config from defaults, the config file, the environment
// and finally the flags in args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, envFile); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is LoadConfig over os.Args that panics on error.
func MustLoad() *Config {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
