package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "merchant.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test_token")
	t.Setenv("SHOPIFY_API_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "2025-01", cfg.ShopifyAPIVersion)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"shop domain", "SHOPIFY_SHOP_DOMAIN"},
		{"access token", "SHOPIFY_ACCESS_TOKEN"},
		{"api secret", "SHOPIFY_API_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.unset)
		})
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestNormalizedShopDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"merchant.myshopify.com", "merchant.myshopify.com"},
		{"https://merchant.myshopify.com", "merchant.myshopify.com"},
		{"https://merchant.myshopify.com/", "merchant.myshopify.com"},
		{"http://merchant.myshopify.com", "merchant.myshopify.com"},
	}

	for _, tt := range tests {
		cfg := &Config{ShopifyShopDomain: tt.in}
		assert.Equal(t, tt.want, cfg.NormalizedShopDomain())
	}
}
