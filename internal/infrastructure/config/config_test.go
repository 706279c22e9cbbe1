package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "jwt")

	cfg := Load()

	assert.Equal(t, ":9091", cfg.GRPCAddr())
	assert.Equal(t, ":8091", cfg.HTTPAddr())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "scoring.events", cfg.Kafka.EventsTopic)
	assert.Empty(t, cfg.Kafka.ActivityTopic)
	assert.Equal(t, "@daily", cfg.ScoreRefreshCron)
	assert.Equal(t, 24*time.Hour, cfg.ScoreRefreshSince)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SCORE_REFRESH_CRON", "0 3 * * *")
	t.Setenv("SCORE_REFRESH_LOOKBACK", "6h")
	t.Setenv("KAFKA_TLS", "true")
	t.Setenv("HTTP_PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 7000, cfg.GRPCPort)
	assert.Equal(t, 8091, cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "0 3 * * *", cfg.ScoreRefreshCron)
	assert.Equal(t, 6*time.Hour, cfg.ScoreRefreshSince)
	assert.True(t, cfg.Kafka.TLS)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("JWT_SECRET", "jwt")
		return Load()
	}

	t.Run("missing secrets", func(t *testing.T) {
		cfg := valid()
		cfg.DB.Password = ""
		cfg.Auth.JWTSecret = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("bad cron spec", func(t *testing.T) {
		cfg := valid()
		cfg.ScoreRefreshCron = "whenever"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SCORE_REFRESH_CRON")
	})

	t.Run("half a TLS pair", func(t *testing.T) {
		cfg := valid()
		cfg.TLS.CertFile = "cert.pem"

		assert.Error(t, cfg.Validate())
	})

	t.Run("sample ratio out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Telemetry.SampleRatio = 1.5

		assert.Error(t, cfg.Validate())
	})
}
