// Package config loads runtime configuration for the provctl CLI.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-a string   address:port of the provisioning gRPC endpoint
//	-t int      request timeout (seconds)
//	-o string   output format: auto, json or text
//
// JSON durations may be strings like "90s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "2m",
//	  "output": "json"
//	}
package config

import "time"

// Output formats. OutputAuto picks text on a terminal and JSON otherwise.
const (
	OutputAuto = "auto"
	OutputJSON = "json"
	OutputText = "text"
)

// Config holds runtime settings for the CLI.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	Output             string
}

// LoadDefaults populates c with sensible defaults. The timeout covers a full
// provisioning run including the device build.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 2 * time.Minute
	c.Output = OutputAuto
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
