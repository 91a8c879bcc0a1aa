// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads process-wide settings from the environment. Settings
// are read once at startup and never modified afterwards.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. DISTCALC_PROVIDER.
const EnvPrefix = "DISTCALC"

// Config holds every tunable of the program.
type Config struct {
	// Provider is the geocoding backend: nominatim or google.
	Provider     string `split_words:"true" default:"nominatim"`
	NominatimURL string `split_words:"true" default:"https://nominatim.openstreetmap.org"`
	GoogleURL    string `split_words:"true" default:"https://maps.googleapis.com"`
	// GoogleMapsAPIKey also falls back to the unprefixed GOOGLE_MAPS_API_KEY.
	GoogleMapsAPIKey string `split_words:"true"`
	GoogleProjectID  string `split_words:"true"`
	GoogleKeyName    string `split_words:"true" default:"DistCalc Geocoding Key"`
	UserAgent        string `split_words:"true"`

	// Language is the default hint sent to the geocoder. Empty sends none.
	Language string        `split_words:"true"`
	Timeout  time.Duration `split_words:"true" default:"5s"`

	// Method is the distance formula: geodesic, vincenty or spherical.
	Method        string `split_words:"true" default:"geodesic"`
	MapService    string `split_words:"true" default:"www.openstreetmap.org"`
	RoutingEngine string `split_words:"true" default:"graphhopper_car"`

	Listen string `split_words:"true" default:"localhost:8080"`
	// RateLimit is the number of API requests per second allowed per client,
	// zero disables the limiter.
	RateLimit float64 `split_words:"true" default:"0"`
	RateBurst int     `split_words:"true" default:"5"`
}

// Load reads envFile (if it exists; a missing file is not an error) into the
// environment without overriding variables already set, then parses the
// environment into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.GoogleMapsAPIKey == "" {
		cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}

	return &cfg, nil
}

// Validate checks values that cannot be expressed as envconfig tags.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}

	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1 when rate limiting, got %d", c.RateBurst)
	}

	return nil
}
