package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is rejected in production.
const DefaultJWTSecret = "xenofy-secret-key-change-in-production"

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	CORSOrigins []string
	// DemoSeed provisions the demo tenant and its sample data at startup
	DemoSeed bool

	Database  DatabaseConfig
	JWT       JWTConfig
	Shopify   ShopifyConfig
	Ingestion IngestionConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
}

type DatabaseConfig struct {
	URL             string // DATABASE_URL, wins over the discrete fields
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	LogLevel        string // silent|error|warn|info
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DSN connection string for the postgres driver
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type ShopifyConfig struct {
	APIVersion string
	// requests per second against one shop
	RateLimit float64
	MaxPages  int
	Timeout   time.Duration
}

type IngestionConfig struct {
	Cron            string
	RunOnStart      bool
	RetryFailed     bool
	Timeout         time.Duration
	LeaseTTL        time.Duration
	TriggerCooldown time.Duration
}

type RedisConfig struct {
	Addr     string // empty disables the redis lease
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string // empty disables run event publishing
	Topic   string
}

// IsProduction production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "3001")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://localhost:3000")
	viper.SetDefault("DEMO_SEED", true)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	viper.SetDefault("JWT_TTL", 24*time.Hour)
	viper.SetDefault("JWT_ISSUER", "xenofy")
	viper.SetDefault("SHOPIFY_API_VERSION", "2023-10")
	viper.SetDefault("SHOPIFY_RATE_LIMIT", 2.0)
	viper.SetDefault("SHOPIFY_MAX_PAGES", 40)
	viper.SetDefault("SHOPIFY_TIMEOUT", 30*time.Second)
	viper.SetDefault("INGESTION_CRON", "0 0 * * * *")
	viper.SetDefault("INGESTION_RUN_ON_START", false)
	viper.SetDefault("INGESTION_RETRY_FAILED", true)
	viper.SetDefault("INGESTION_TIMEOUT", 25*time.Minute)
	viper.SetDefault("INGESTION_LEASE_TTL", 30*time.Minute)
	viper.SetDefault("INGESTION_TRIGGER_COOLDOWN", time.Minute)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_TOPIC", "ingestion.runs")

	// Read from environment variables
	viper.AutomaticEnv()

	// .env is optional
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "3001"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnvOrViper("CORS_ALLOWED_ORIGINS", "")),
		DemoSeed:    viper.GetBool("DEMO_SEED"),
		Database: DatabaseConfig{
			URL:             strings.TrimSpace(getEnvOrViper("DATABASE_URL", "")),
			Host:            getEnvOrViper("DB_HOST", "localhost"),
			Port:            getEnvOrViper("DB_PORT", "5432"),
			User:            getEnvOrViper("DB_USER", "postgres"),
			Password:        getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:          getEnvOrViper("DB_NAME", "xenofy"),
			SSLMode:         getEnvOrViper("DB_SSLMODE", "disable"),
			LogLevel:        getEnvOrViper("DB_LOG_LEVEL", "warn"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			Secret: getEnvOrViper("JWT_SECRET", DefaultJWTSecret),
			TTL:    viper.GetDuration("JWT_TTL"),
			Issuer: getEnvOrViper("JWT_ISSUER", "xenofy"),
		},
		Shopify: ShopifyConfig{
			APIVersion: getEnvOrViper("SHOPIFY_API_VERSION", "2023-10"),
			RateLimit:  viper.GetFloat64("SHOPIFY_RATE_LIMIT"),
			MaxPages:   viper.GetInt("SHOPIFY_MAX_PAGES"),
			Timeout:    viper.GetDuration("SHOPIFY_TIMEOUT"),
		},
		Ingestion: IngestionConfig{
			Cron:            getEnvOrViper("INGESTION_CRON", "0 0 * * * *"),
			RunOnStart:      viper.GetBool("INGESTION_RUN_ON_START"),
			RetryFailed:     viper.GetBool("INGESTION_RETRY_FAILED"),
			Timeout:         viper.GetDuration("INGESTION_TIMEOUT"),
			LeaseTTL:        viper.GetDuration("INGESTION_LEASE_TTL"),
			TriggerCooldown: viper.GetDuration("INGESTION_TRIGGER_COOLDOWN"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getEnvOrViper("REDIS_ADDR", "")),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnvOrViper("KAFKA_BROKERS", "")),
			Topic:   getEnvOrViper("KAFKA_TOPIC", "ingestion.runs"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWT.Secret == DefaultJWTSecret {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.Ingestion.LeaseTTL <= 0 {
		return fmt.Errorf("INGESTION_LEASE_TTL must be positive")
	}
	if c.Ingestion.Timeout >= c.Ingestion.LeaseTTL {
		return fmt.Errorf("INGESTION_TIMEOUT must be shorter than INGESTION_LEASE_TTL")
	}
	if c.Shopify.RateLimit <= 0 {
		return fmt.Errorf("SHOPIFY_RATE_LIMIT must be positive")
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
