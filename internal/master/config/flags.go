package config

import (
	"flag"
	"os"

	"github.com/beaumontjonathan/words/internal/flagx"
)

// parseFlags populates selected master Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   worker bind address (e.g., ":8000")
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.WorkerAddr, "a", config.WorkerAddr, "address and port to listen for workers")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
