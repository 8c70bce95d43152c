package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-bitonic/bitonic"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1<<22, cfg.N())
	assert.Equal(t, 10*time.Second, cfg.Duration)
	assert.Equal(t, 1, cfg.Granularity)
	assert.True(t, cfg.Verify)
	assert.True(t, bitonic.IsPowerOfTwo(cfg.Workers))
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv(t *testing.T) {
	cfg, err := Default().fromLookup(lookupFrom(map[string]string{
		"BITONIC_WORKERS":         "8",
		"BITONIC_LOG2N":           " 16 ",
		"BITONIC_DURATION":        "250ms",
		"BITONIC_SEED":            "42",
		"BITONIC_NO_VERIFY":       "1",
		"BITONIC_BARRIER_TIMEOUT": "3s",
		"BITONIC_LOG_LEVEL":       "debug",
	}))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 16, cfg.Log2N)
	assert.Equal(t, 250*time.Millisecond, cfg.Duration)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.False(t, cfg.Verify)
	assert.Equal(t, 3*time.Second, cfg.BarrierTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 1<<13, cfg.Section())
}

func TestFromEnvNoVerifyFalse(t *testing.T) {
	cfg, err := Default().fromLookup(lookupFrom(map[string]string{"BITONIC_NO_VERIFY": "false"}))
	require.NoError(t, err)
	assert.True(t, cfg.Verify)

	cfg, err = Default().fromLookup(lookupFrom(map[string]string{"BITONIC_NO_VERIFY": "yes please"}))
	require.NoError(t, err)
	assert.False(t, cfg.Verify)
}

func TestFromEnvEmptyIgnored(t *testing.T) {
	base := Default()
	cfg, err := base.fromLookup(lookupFrom(map[string]string{"BITONIC_LOG2N": "  "}))
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestFromEnvErrors(t *testing.T) {
	for _, env := range []map[string]string{
		{"BITONIC_WORKERS": "many"},
		{"BITONIC_LOG2N": "1.5"},
		{"BITONIC_DURATION": "10"},
		{"BITONIC_SEED": "-1"},
		{"BITONIC_BARRIER_TIMEOUT": "soon"},
		{"BITONIC_LOG_LEVEL": "loud"},
	} {
		_, err := Default().fromLookup(lookupFrom(env))
		assert.Error(t, err, "env %v", env)
	}
}

func TestValidate(t *testing.T) {
	ok := Default()
	ok.Workers, ok.Log2N = 4, 3
	require.NoError(t, ok.Validate())

	tests := map[string]func(*Config){
		"workers not dividing": func(c *Config) { c.Workers = 3 },
		"workers above n":      func(c *Config) { c.Workers = 16 },
		"granularity":          func(c *Config) { c.Granularity = 2 },
		"log2n too large":      func(c *Config) { c.Log2N = MaxLog2N + 1 },
		"log2n negative":       func(c *Config) { c.Log2N = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := ok
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), bitonic.ErrInvalidConfiguration)
		})
	}

	neg := ok
	neg.Duration = -time.Second
	assert.Error(t, neg.Validate())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
