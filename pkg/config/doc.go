// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct tag parsing:
//
//   - LoadEnv reads one or more .env files into the process environment.
//   - Load parses the environment into any struct and caches the result per
//     type, so repeated calls are cheap and consistent.
//   - MustLoad and MustLoadEnv panic instead of returning an error.
//   - ResetCache and ForceReloadConfig discard cached values, mostly for tests.
//
// # Usage
//
//	type Config struct {
//	    LogLevel string `env:"CROSSING_LOG_LEVEL" envDefault:"info"`
//	    Mode     string `env:"CROSSING_MODE" envDefault:"sync"`
//	}
//
//	if err := config.LoadEnv("./deploy/.env"); err != nil {
//	    log.Fatalf("loading env: %v", err)
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Errors
//
//   - ErrParsingConfig: a value could not be parsed or a required one is missing.
//   - ErrLoadingEnvFile: a .env file could not be read.
//   - ErrNilPointer: nil passed to Load or ForceReloadConfig.
package config
