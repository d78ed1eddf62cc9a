// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Environment variables with built-in defaults (no file at all)
//
// Source 3 means the process can start with no flags and no file, per
// the system's "no CLI flags beyond process start" contract: it falls
// back to a local ./data directory.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure. Every field maps to a key
// in the YAML file AND can be overridden by the corresponding
// environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity. Valid values: "dev",
	// "staging", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite database file
	// holding the four entity collections.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"data/enrollment.db"`
}

// MustLoad reads, validates, and returns the application config.
//
// The name follows the Go convention: "Must" functions are allowed to
// fatal on failure, so callers never check an error — if this returns,
// the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	var cfg Config

	// No file given: environment variables plus defaults are enough.
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err.Error())
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
