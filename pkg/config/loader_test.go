package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Addr    string        `env:"TEST_ADDR" envDefault:"localhost:9"`
	Retries int           `env:"TEST_RETRIES" envDefault:"3"`
	Wait    time.Duration `env:"TEST_WAIT" envDefault:"250ms"`
	Brokers []string      `env:"TEST_BROKERS" envDefault:"a:1,b:2" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "localhost:9", cfg.Addr)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Brokers)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TEST_ADDR", "redis:6379")
	t.Setenv("TEST_RETRIES", "7")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "redis:6379", cfg.Addr)
	assert.Equal(t, 7, cfg.Retries)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_RETRIES", "not-a-number")

	var cfg testConfig
	assert.Error(t, Load(&cfg))
}
