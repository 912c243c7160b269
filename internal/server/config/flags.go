package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags overrides Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p int      HTTP port
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-b int      bcrypt cost
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and flags of
// other components do not break parsing. Token validity is given in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-d", "-s", "-t", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.IntVar(&config.Port, "p", config.Port, "HTTP port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t overrides, so sub-minute values from env survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
		}
	})
}
