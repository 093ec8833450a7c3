package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the service configuration.
type Config struct {
	HTTP     HTTPConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	External ExternalConfig
	Checkout CheckoutConfig
	Logging  LoggingConfig
}

type HTTPConfig struct {
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig is optional; with no brokers configured the engine runs
// without event publishing.
type KafkaConfig struct {
	Brokers []string
}

// ExternalConfig points at the collaborator services.
type ExternalConfig struct {
	PromoServiceURL  string
	PickupServiceURL string
	OrderServiceURL  string
	ClientTimeout    time.Duration
}

// CheckoutConfig carries the business constants.
type CheckoutConfig struct {
	VatRate        float64
	HomeCountry    string
	SessionIdleTTL time.Duration
	SnapshotTTL    time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string // text|json
}

const (
	defaultPort            = "8080"
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultClientTimeout   = 10 * time.Second
	defaultVatRate         = 0.21
	defaultHomeCountry     = "LT"
	defaultSessionIdleTTL  = 30 * time.Minute
	defaultSnapshotTTL     = time.Hour
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	vatRate, err := parseFloatWithDefault("CHECKOUT_VAT_RATE", defaultVatRate)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := parseIntWithDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Port:            valueOrDefault("HTTP_PORT", defaultPort),
			RequestTimeout:  defaultRequestTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Redis: RedisConfig{
			Addr:     valueOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
		},
		External: ExternalConfig{
			PromoServiceURL:  valueOrDefault("PROMO_SERVICE_URL", "http://localhost:8081"),
			PickupServiceURL: valueOrDefault("PICKUP_SERVICE_URL", "http://localhost:8082"),
			OrderServiceURL:  valueOrDefault("ORDER_SERVICE_URL", "http://localhost:8083"),
			ClientTimeout:    defaultClientTimeout,
		},
		Checkout: CheckoutConfig{
			VatRate:        vatRate,
			HomeCountry:    valueOrDefault("CHECKOUT_HOME_COUNTRY", defaultHomeCountry),
			SessionIdleTTL: defaultSessionIdleTTL,
			SnapshotTTL:    defaultSnapshotTTL,
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", "info"),
			Format: valueOrDefault("LOG_FORMAT", "text"),
		},
	}

	if cfg.Checkout.VatRate < 0 || cfg.Checkout.VatRate >= 1 {
		return Config{}, fmt.Errorf("CHECKOUT_VAT_RATE out of range: %v", cfg.Checkout.VatRate)
	}

	return cfg, nil
}

func valueOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntWithDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloatWithDefault(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
