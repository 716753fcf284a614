package config

import (
	"flag"
	"os"
	"time"

	"github.com/beaumontjonathan/words/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   worker address (e.g., "localhost:3000")
//	-t int      response timeout, seconds
//
// Duration flags are accepted as integers in seconds and then converted to
// time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerAddr, "a", config.ServerAddr, "worker address")

	responseTimeout := fs.Int("t", int(config.ResponseTimeout.Seconds()), "response_timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ResponseTimeout = time.Duration(*responseTimeout) * time.Second
}
