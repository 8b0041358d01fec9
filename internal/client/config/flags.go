package config

import (
	"flag"
	"os"

	"github.com/babalolajnr/todo-api/internal/flagx"
)

// parseFlags overlays Config values from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the API server
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.ServerAddr, "a", config.ServerAddr, "base URL of the API server")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
