package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only -a, -t and -o are consumed; the rest of os.Args is left for the
// command itself.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "output format: auto, json or text")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
