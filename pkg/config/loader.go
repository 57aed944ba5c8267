package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load is called with a nil target.
	ErrNilPointer = errors.New("config target cannot be nil")

	// ErrParsingConfig is returned when environment parsing fails.
	ErrParsingConfig = errors.New("failed to parse config from environment")
)

var defaultEnvLoaded sync.Once

// Load populates the configuration struct from environment variables.
// The default .env file is loaded once per process before the first parse;
// a missing .env file is not an error.
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use for configuration the application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}
