package config

import (
	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the environment variables the service honors. PORT is
// kept for parity with the usual PaaS convention and expands to ":<port>"
// when ADDRESS is not set explicitly.
type envConfig struct {
	Address     string `env:"ADDRESS"`
	Port        string `env:"PORT"`
	DatabaseDSN string `env:"DATABASE_DSN"`
	SecretKey   string `env:"SECRET_KEY"`
}

// parseEnv overlays environment values onto the provided Config. Unset
// variables leave the existing values untouched.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.Address != "" {
		config.EndpointAddr = c.Address
	} else if c.Port != "" {
		config.EndpointAddr = ":" + c.Port
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
}
