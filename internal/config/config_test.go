package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SinkMemory, cfg.SinkKind)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, int64(1_048_576), cfg.MaxBodyBytes)
	assert.Equal(t, 200*time.Millisecond, cfg.IdentityWait())
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL())
	assert.Equal(t, time.Minute, cfg.SessionSweepEvery())
	assert.Empty(t, cfg.APIKeys())
}

func TestLoad_FromEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("PORT", "9090")
	t.Setenv("SINK_KIND", "kafka")
	t.Setenv("KAFKA_BROKERS", "b2:9092, b1:9092,")
	t.Setenv("API_KEYS", "k1, k2")
	t.Setenv("UPSTREAM_TIMEOUT_MS", "250")
	t.Setenv("PURCHASE_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, SinkKafka, cfg.SinkKind)
	assert.Equal(t, []string{"b2:9092", "b1:9092"}, cfg.Brokers())
	assert.Equal(t, map[string]struct{}{"k1": {}, "k2": {}}, cfg.APIKeys())
	assert.Equal(t, 250*time.Millisecond, cfg.UpstreamTimeout())
	assert.Equal(t, 8, cfg.PurchaseWorkers)
}

func TestLoad_RejectsUnknownSink(t *testing.T) {
	viper.Reset()
	t.Setenv("SINK_KIND", "carrier-pigeon")

	_, err := Load()
	assert.ErrorContains(t, err, "SINK_KIND")
}
