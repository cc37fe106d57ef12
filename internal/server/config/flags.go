package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/flagx"
)

// parseFlags populates Config from command-line flags.
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN ("" = in-memory store)
//	-t int      session TTL in minutes (0 = never expires)
//	-l string   log level
//	-n int      default page size
//	-m int      maximum page size
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-l", "-n", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	sessionTTL := fs.Int("t", 0, "session TTL (in minutes, 0 = no expiry)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.IntVar(&config.DefaultPageLimit, "n", config.DefaultPageLimit, "default page size")
	fs.IntVar(&config.MaxPageLimit, "m", config.MaxPageLimit, "maximum page size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t overrides, so sub-minute file values survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		}
	})
}
