// Package config loads the service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppName     string `mapstructure:"app_name"`
	AppLogLevel string `mapstructure:"app_log_level"`

	Port         string `mapstructure:"port"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
	APIKeysCSV   string `mapstructure:"api_keys"`

	SinkKind     string `mapstructure:"sink_kind"`
	KafkaBrokers string `mapstructure:"kafka_brokers"`
	KafkaTopic   string `mapstructure:"kafka_topic"`

	UpstreamBaseURL   string `mapstructure:"upstream_base_url"`
	UpstreamTimeoutMS int    `mapstructure:"upstream_timeout_ms"`
	CatalogDSN        string `mapstructure:"catalog_dsn"`

	LegacyPixelURL       string `mapstructure:"legacy_pixel_url"`
	LegacyTransactionURL string `mapstructure:"legacy_transaction_url"`
	LegacyConversionURL  string `mapstructure:"legacy_conversion_url"`
	LegacyRevenueURL     string `mapstructure:"legacy_revenue_url"`
	LegacyTimeoutMS      int    `mapstructure:"legacy_timeout_ms"`

	PurchaseQueueSize  int `mapstructure:"purchase_queue_size"`
	PurchaseWorkers    int `mapstructure:"purchase_workers"`
	PurchaseRatePerMin int `mapstructure:"purchase_rate_per_min"`

	Currency       string `mapstructure:"currency"`
	IdentityWaitMS int    `mapstructure:"identity_wait_ms"`

	SessionIdleTTLMS    int `mapstructure:"session_idle_ttl_ms"`
	SessionSweepEveryMS int `mapstructure:"session_sweep_every_ms"`
}

const (
	SinkMemory = "memory"
	SinkKafka  = "kafka"
)

var defaults = map[string]any{
	"app_name":               "tracking-api",
	"app_log_level":          "INFO",
	"port":                   "8080",
	"max_body_bytes":         1_048_576,
	"api_keys":               "",
	"sink_kind":              SinkMemory,
	"kafka_brokers":          "localhost:9092",
	"kafka_topic":            "analytics-events",
	"upstream_base_url":      "http://localhost:9000",
	"upstream_timeout_ms":    3000,
	"catalog_dsn":            "",
	"legacy_pixel_url":       "",
	"legacy_transaction_url": "",
	"legacy_conversion_url":  "",
	"legacy_revenue_url":     "",
	"legacy_timeout_ms":      1500,
	"purchase_queue_size":    1000,
	"purchase_workers":       4,
	"purchase_rate_per_min":  0,
	"currency":               "USD",
	"identity_wait_ms":       200,
	"session_idle_ttl_ms":    30 * 60 * 1000,
	"session_sweep_every_ms": 60 * 1000,
}

// Load reads every key from its upper-case environment variable, falling
// back to the defaults above.
func Load() (Config, error) {
	viper.AutomaticEnv()
	for k, v := range defaults {
		viper.SetDefault(k, v)
		if err := viper.BindEnv(k, strings.ToUpper(k)); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", k, err)
		}
	}
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SinkKind {
	case SinkMemory, SinkKafka:
	default:
		return fmt.Errorf("invalid SINK_KIND: %q", c.SinkKind)
	}
	if c.PurchaseQueueSize <= 0 {
		return fmt.Errorf("invalid PURCHASE_QUEUE_SIZE: %d", c.PurchaseQueueSize)
	}
	return nil
}

// APIKeys is the allow-list; empty disables API key auth.
func (c Config) APIKeys() map[string]struct{} {
	return parseList(c.APIKeysCSV)
}

// Brokers keeps the configured order.
func (c Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

func (c Config) LegacyTimeout() time.Duration {
	return time.Duration(c.LegacyTimeoutMS) * time.Millisecond
}

func (c Config) IdentityWait() time.Duration {
	return time.Duration(c.IdentityWaitMS) * time.Millisecond
}

func (c Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleTTLMS) * time.Millisecond
}

func (c Config) SessionSweepEvery() time.Duration {
	return time.Duration(c.SessionSweepEveryMS) * time.Millisecond
}

func parseList(csv string) map[string]struct{} {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return map[string]struct{}{}
	}
	m := make(map[string]struct{})
	for _, k := range strings.Split(csv, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			m[k] = struct{}{}
		}
	}
	return m
}
