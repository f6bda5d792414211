package config

import (
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// envFile is loaded, when present, before the environment is read.
// Variables already set in the process environment take precedence.
var envFile = ".env"

// envPrefix is prepended to every variable name in the struct tags.
const envPrefix = "DEVICEPROV_"

// parseEnv overlays Config fields from environment variables named in the
// struct tags, e.g. DEVICEPROV_S3_BUCKET. Unset variables leave the current value untouched.
// A malformed value panics, like a malformed JSON file does.
func parseEnv(config *Config) {
	_ = godotenv.Load(envFile)

	if err := env.Parse(config, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
