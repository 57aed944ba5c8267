package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/config"
)

type testConfig struct {
	Secret   string        `env:"TEST_SECRET,required"`
	Interval time.Duration `env:"TEST_INTERVAL" envDefault:"5s"`
	Debug    bool          `env:"TEST_DEBUG" envDefault:"false"`
}

func TestLoad(t *testing.T) {
	t.Run("populates from environment with defaults", func(t *testing.T) {
		t.Setenv("TEST_SECRET", "whsec_abc")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "whsec_abc", cfg.Secret)
		assert.Equal(t, 5*time.Second, cfg.Interval)
		assert.False(t, cfg.Debug)
	})

	t.Run("overrides defaults from environment", func(t *testing.T) {
		t.Setenv("TEST_SECRET", "whsec_abc")
		t.Setenv("TEST_INTERVAL", "250ms")
		t.Setenv("TEST_DEBUG", "true")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, 250*time.Millisecond, cfg.Interval)
		assert.True(t, cfg.Debug)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		// t.Setenv registers the restore; the unset makes the variable
		// truly absent rather than set-but-empty.
		t.Setenv("TEST_SECRET", "")
		require.NoError(t, os.Unsetenv("TEST_SECRET"))

		var cfg testConfig
		err := config.Load(&cfg)

		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil target is rejected", func(t *testing.T) {
		err := config.Load[testConfig](nil)

		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns populated config", func(t *testing.T) {
		t.Setenv("TEST_SECRET", "whsec_abc")

		var cfg testConfig
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, "whsec_abc", cfg.Secret)
	})

	t.Run("panics when loading fails", func(t *testing.T) {
		t.Setenv("TEST_SECRET", "")
		require.NoError(t, os.Unsetenv("TEST_SECRET"))

		var cfg testConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}
