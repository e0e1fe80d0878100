package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langpack/pkg/config"
)

func TestLoadSuccess(t *testing.T) {
	type ServeConfig struct {
		Addr         string        `env:"TEST_SERVE_ADDR" envDefault:":8080"`
		ReadTimeout  time.Duration `env:"TEST_SERVE_READ_TIMEOUT" envDefault:"5s"`
		EnableEvents bool          `env:"TEST_SERVE_EVENTS" envDefault:"true"`
	}

	t.Setenv("TEST_SERVE_ADDR", ":9090")

	var cfg ServeConfig
	err := config.Load(&cfg)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.True(t, cfg.EnableEvents)
}

func TestLoadRequiredMissing(t *testing.T) {
	type TokenConfig struct {
		Token string `env:"TEST_MISSING_TOKEN,required"`
	}

	var cfg TokenConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadNilPointer(t *testing.T) {
	err := config.Load[struct{}](nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoadCachesPerType(t *testing.T) {
	type CachedConfig struct {
		Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
	}

	t.Setenv("TEST_CACHED_VALUE", "original")

	var first CachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "original", first.Value)

	// Changing the environment after the first load must not leak into
	// subsequent loads of the same type.
	t.Setenv("TEST_CACHED_VALUE", "changed")

	var second CachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "original", second.Value)
}

func TestResetClearsCache(t *testing.T) {
	type ResetConfig struct {
		Value string `env:"TEST_RESET_VALUE" envDefault:"default"`
	}

	t.Setenv("TEST_RESET_VALUE", "before")

	var first ResetConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "before", first.Value)

	t.Setenv("TEST_RESET_VALUE", "after")
	config.Reset()

	var second ResetConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "after", second.Value)
}

func TestMustLoadPanicsOnError(t *testing.T) {
	type PanicConfig struct {
		Token string `env:"TEST_PANIC_TOKEN,required"`
	}

	assert.Panics(t, func() {
		var cfg PanicConfig
		config.MustLoad(&cfg)
	})
}

func TestMustLoadSuccess(t *testing.T) {
	type OkConfig struct {
		Name string `env:"TEST_OK_NAME" envDefault:"langpack"`
	}

	assert.NotPanics(t, func() {
		var cfg OkConfig
		config.MustLoad(&cfg)
		assert.Equal(t, "langpack", cfg.Name)
	})
}

func TestLoadConcurrent(t *testing.T) {
	type ConcurrentConfig struct {
		Value string `env:"TEST_CONCURRENT_VALUE" envDefault:"shared"`
	}

	t.Setenv("TEST_CONCURRENT_VALUE", "race-free")

	const goroutines = 16
	results := make(chan string, goroutines)
	for range goroutines {
		go func() {
			var cfg ConcurrentConfig
			if err := config.Load(&cfg); err != nil {
				results <- "error: " + err.Error()
				return
			}
			results <- cfg.Value
		}()
	}

	for range goroutines {
		assert.Equal(t, "race-free", <-results)
	}
}
