package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialconnect/broker/pkg/config"
)

type testConfig struct {
	BaseURL  string        `env:"TEST_BROKER_BASE_URL,required"`
	StateTTL time.Duration `env:"TEST_BROKER_STATE_TTL" envDefault:"10m"`
	Debug    bool          `env:"TEST_BROKER_DEBUG" envDefault:"false"`
}

func TestLoad(t *testing.T) {
	t.Run("parses environment", func(t *testing.T) {
		t.Setenv("TEST_BROKER_BASE_URL", "https://cloud.example")
		t.Setenv("TEST_BROKER_STATE_TTL", "5m")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "https://cloud.example", cfg.BaseURL)
		assert.Equal(t, 5*time.Minute, cfg.StateTTL)
		assert.False(t, cfg.Debug)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("TEST_BROKER_BASE_URL", "https://cloud.example")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 10*time.Minute, cfg.StateTTL)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}
