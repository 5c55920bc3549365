package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slotwise/bookingkit/pkg/config"
)

// Env mutation via t.Setenv forbids t.Parallel in these tests.

func TestLoad(t *testing.T) {
	type storeConfig struct {
		DatabaseURL string `env:"BOOKING_TEST_DATABASE_URL,required"`
		MaxRetries  int    `env:"BOOKING_TEST_MAX_RETRIES" envDefault:"1"`
	}

	t.Run("parses env with defaults", func(t *testing.T) {
		t.Setenv("BOOKING_TEST_DATABASE_URL", "postgres://localhost:5432/bookings")

		var cfg storeConfig
		require.NoError(t, config.Load(&cfg))
		require.Equal(t, "postgres://localhost:5432/bookings", cfg.DatabaseURL)
		require.Equal(t, 1, cfg.MaxRetries)
	})

	t.Run("caches by type", func(t *testing.T) {
		t.Setenv("BOOKING_TEST_DATABASE_URL", "postgres://localhost:5432/bookings")

		var first storeConfig
		require.NoError(t, config.Load(&first))

		// Changed environment must not leak into an already-loaded type.
		t.Setenv("BOOKING_TEST_DATABASE_URL", "postgres://other:5432/bookings")

		var second storeConfig
		require.NoError(t, config.Load(&second))
		require.Equal(t, first, second)
	})

	t.Run("missing required var fails", func(t *testing.T) {
		type strictConfig struct {
			Token string `env:"BOOKING_TEST_ABSENT_TOKEN,required"`
		}

		var cfg strictConfig
		err := config.Load(&cfg)
		require.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[storeConfig](nil)
		require.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	type brokenConfig struct {
		Token string `env:"BOOKING_TEST_OTHER_ABSENT_TOKEN,required"`
	}

	require.Panics(t, func() {
		var cfg brokenConfig
		config.MustLoad(&cfg)
	})
}
