package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/beaumontjonathan/words/internal/flagx"
)

// parseFlags populates selected worker Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   client bind address (e.g., ":3000")
//	-m string   master relay address (e.g., "localhost:8000")
//	-d string   PostgreSQL DSN
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ClientAddr, "a", config.ClientAddr, "address and port to listen for clients")
	fs.StringVar(&config.MasterAddr, "m", config.MasterAddr, "master relay address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

// parsePortArg applies the positional form "worker <port>". A bare integer
// as the first argument overrides the client bind address, which keeps old
// process managers that start workers this way working unchanged.
func parsePortArg(config *Config) {
	if len(os.Args) < 2 {
		return
	}
	port, err := strconv.Atoi(os.Args[1])
	if err != nil || port < 1 || port > 65535 {
		return
	}
	config.ClientAddr = ":" + os.Args[1]
}
