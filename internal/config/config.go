// Package config loads service settings from the environment.
package config

import "github.com/kelseyhightower/envconfig"

// Config holds the runtime settings of the forecast service. Values come
// from FORECAST_-prefixed environment variables.
type Config struct {
	Port    string `envconfig:"PORT" default:"8084"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("forecast", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
