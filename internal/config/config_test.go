package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("API_URL", "https://example.test/exec")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STORE_DSN", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/exec", cfg.APIURL)
	assert.Equal(t, ":8090", cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "wimpy.db", cfg.StoreDSN)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Nil(t, cfg.KafkaBrokers)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("API_URL", "http://localhost:9999")
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("STORE_DSN", "postgres://u:p@db:5432/wimpy")
	t.Setenv("REQUEST_TIMEOUT", "3")
	t.Setenv("KAFKA_BROKERS", "kafka:9092, kafka2:9092,")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, cfg.KafkaBrokers)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Setenv("API_URL", "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingAPIURL)

	t.Setenv("API_URL", "http://localhost")
	t.Setenv("STORE_DRIVER", "mongo")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestEnvIntDefault_InvalidFallsBack(t *testing.T) {
	t.Setenv("WIMPY_N", "abc")
	assert.Equal(t, 7, EnvIntDefault("WIMPY_N", 7))
}
