package config

import (
	"flag"

	"github.com/dmitrijs2005/gophadmin/internal/flagx"
)

// parseFlags overlays Config with -a, -d and -l. Other arguments are
// filtered out so the config file flag and unrelated flags do not trip the
// parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l"})

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST backend")
	fs.StringVar(&cfg.StorageDSN, "d", cfg.StorageDSN, "SQLite DSN for local storage")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
