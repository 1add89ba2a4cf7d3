package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/snappy/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   chat backend base URL
//	-g string   avatar generator base URL
//	-d string   path of the local SQLite database
//	-t int      request timeout in seconds
//	-l string   log level
//
// Only the flags listed above are parsed; everything else on the command line
// is left for other loaders (see flagx.FilterArgs).
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "chat backend base URL")
	fs.StringVar(&cfg.AvatarAPIURL, "g", cfg.AvatarAPIURL, "avatar generator base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database file")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
