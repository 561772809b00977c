package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache holds one parsed copy per configuration type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	global = &cache{values: make(map[reflect.Type]any)}

	defaultEnvOnce sync.Once
)

// Load parses environment variables into v according to its `env` struct tags.
//
// The default .env file in the working directory is read once per process,
// if present. Each configuration type is parsed only on the first successful
// call; later calls copy the cached value into v.
//
// Example:
//
//	type Config struct {
//		Mode     string `env:"CROSSING_MODE" envDefault:"sync"`
//		MaxDepth int    `env:"CROSSING_MAX_DEPTH" envDefault:"64"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvOnce.Do(func() {
		// A missing .env is fine.
		_ = godotenv.Load()
	})

	key := typeKey[T]()

	global.mu.Lock()
	defer global.mu.Unlock()

	if cached, ok := global.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	return parseLocked(key, v)
}

// MustLoad is Load that panics on failure. Use it for configuration the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}

// ForceReloadConfig parses v again, replacing the cached copy. Useful after
// the process environment changed.
func ForceReloadConfig[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	key := typeKey[T]()

	global.mu.Lock()
	defer global.mu.Unlock()

	delete(global.values, key)
	return parseLocked(key, v)
}

// LoadEnv reads the given .env files into the process environment, or the
// default .env when called without arguments. Later files override earlier
// ones and any variable already set. Cached configurations are not touched;
// call ResetCache or ForceReloadConfig to pick up the new values.
func LoadEnv(files ...string) error {
	if err := godotenv.Overload(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure.
func MustLoadEnv(files ...string) {
	if err := LoadEnv(files...); err != nil {
		panic(fmt.Sprintf("config: failed to load env files: %v", err))
	}
}

// ResetCache drops every cached configuration.
func ResetCache() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.values = make(map[reflect.Type]any)
}

func parseLocked[T any](key reflect.Type, v *T) error {
	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	global.values[key] = parsed
	*v = parsed
	return nil
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
