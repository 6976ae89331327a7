// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/huertalab/durazno/internal/classifier"
)

// Environment variables read by FromEnv.
const (
	EnvDB                   = "DURAZNO_DB"
	EnvCatalogue            = "DURAZNO_CATALOGUE"
	EnvModelManifest        = "DURAZNO_MODEL_MANIFEST"
	EnvModelEndpoint        = "DURAZNO_MODEL_ENDPOINT"
	EnvModelTimeout         = "DURAZNO_MODEL_TIMEOUT"
	EnvHealthyMinConfidence = "DURAZNO_HEALTHY_MIN_CONFIDENCE"
	EnvDominanceThreshold   = "DURAZNO_DOMINANCE_THRESHOLD"
	EnvLogLevel             = "DURAZNO_LOG_LEVEL"
	EnvAddr                 = "DURAZNO_ADDR"
)

const (
	DefaultModelTimeout = 10 * time.Second
	DefaultAddr         = ":8080"
)

// Config is the process configuration.
type Config struct {
	DB        string // empty means store.DefaultDBPath
	Catalogue string // empty means the built-in catalogue
	LogLevel  string // empty means the command's default
	Addr      string

	Model  ModelConfig
	Filter FilterConfig
}

// ModelConfig locates the image classifier.
type ModelConfig struct {
	Manifest string
	Endpoint string
	Timeout  time.Duration
}

// FilterConfig overrides the classifier filter knobs.
type FilterConfig struct {
	HealthyMinConfidence float64
	DominanceThreshold   float64
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:  DefaultAddr,
		Model: ModelConfig{Timeout: DefaultModelTimeout},
		Filter: FilterConfig{
			HealthyMinConfidence: classifier.DefaultHealthyMinConfidence,
			DominanceThreshold:   classifier.DefaultDominanceThreshold,
		},
	}
}

// Load reads .env from the working directory, if present, then the
// environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from DURAZNO_* variables over Default.
func FromEnv() (Config, error) {
	cfg := Default()

	strVars := []struct {
		env string
		dst *string
	}{
		{EnvDB, &cfg.DB},
		{EnvCatalogue, &cfg.Catalogue},
		{EnvModelManifest, &cfg.Model.Manifest},
		{EnvModelEndpoint, &cfg.Model.Endpoint},
		{EnvLogLevel, &cfg.LogLevel},
		{EnvAddr, &cfg.Addr},
	}
	for _, v := range strVars {
		if s := os.Getenv(v.env); s != "" {
			*v.dst = s
		}
	}

	if s := os.Getenv(EnvModelTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvModelTimeout, err)
		}
		cfg.Model.Timeout = d
	}

	floatVars := []struct {
		env string
		dst *float64
	}{
		{EnvHealthyMinConfidence, &cfg.Filter.HealthyMinConfidence},
		{EnvDominanceThreshold, &cfg.Filter.DominanceThreshold},
	}
	for _, v := range floatVars {
		s := os.Getenv(v.env)
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", v.env, err)
		}
		*v.dst = f
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvModelTimeout)
	}
	if !unitInterval(c.Filter.HealthyMinConfidence) {
		return fmt.Errorf("%s must be within [0,1]", EnvHealthyMinConfidence)
	}
	if !unitInterval(c.Filter.DominanceThreshold) {
		return fmt.Errorf("%s must be within [0,1]", EnvDominanceThreshold)
	}
	return nil
}

// unitInterval reports whether v is a number in [0,1]. NaN is rejected.
func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// FilterPolicy returns the default policy with the configured knobs applied.
func (c Config) FilterPolicy() classifier.FilterPolicy {
	p := classifier.DefaultFilterPolicy()
	p.HealthyMinConfidence = c.Filter.HealthyMinConfidence
	p.DominanceThreshold = c.Filter.DominanceThreshold
	return p
}
