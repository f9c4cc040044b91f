// Package config loads runtime configuration for the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are decoded as YAML, everything else as JSON.
//  3. Environment: a .env file in the working directory is loaded first
//     (existing variables win), then ADMIN_* variables are decoded.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   base URL of the REST backend
//	-d string   SQLite DSN for local storage
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations use timex.Duration, so "4.5s" and integer nanoseconds are both
// accepted:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "storage_dsn": "admin.db",
//	  "request_timeout": "30s",
//	  "notification_timeout": "4.5s",
//	  "loading_skip_urls": ["/health"]
//	}
package config
