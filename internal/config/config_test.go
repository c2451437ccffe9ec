package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "2023-10", cfg.Shopify.APIVersion)
	assert.Equal(t, "0 0 * * * *", cfg.Ingestion.Cron)
	assert.Equal(t, 30*time.Minute, cfg.Ingestion.LeaseTTL)
	assert.Less(t, cfg.Ingestion.Timeout, cfg.Ingestion.LeaseTTL)
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.DSN())
}

func TestValidate_ProductionNeedsSecret(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		JWT:         JWTConfig{Secret: DefaultJWTSecret, TTL: time.Hour},
		Shopify:     ShopifyConfig{RateLimit: 2},
		Ingestion:   IngestionConfig{LeaseTTL: time.Minute},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "a-real-secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RunTimeoutMustFitInsideLease(t *testing.T) {
	cfg := &Config{
		JWT:       JWTConfig{Secret: "s", TTL: time.Hour},
		Shopify:   ShopifyConfig{RateLimit: 2},
		Ingestion: IngestionConfig{Timeout: time.Hour, LeaseTTL: time.Hour},
	}
	assert.Error(t, cfg.Validate())

	cfg.Ingestion.Timeout = 50 * time.Minute
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: "5432", User: "postgres", Password: "pw", DBName: "xenofy", SSLMode: "disable"}
	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=xenofy sslmode=disable", d.DSN())
}
