package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APP_ENV   string `env:"APP_ENV"`
	HTTP_PORT string `env:"HTTP_PORT"`
	DB_STRING string `env:"DB_STRING"`

	KAFKA_BROKERS      string `env:"KAFKA_BROKERS"`
	KAFKA_GROUP_ID     string `env:"KAFKA_GROUP_ID"`
	KAFKA_ORDERS_TOPIC string `env:"KAFKA_ORDERS_TOPIC"`
	KAFKA_RAFFLE_TOPIC string `env:"KAFKA_RAFFLE_TOPIC"`

	OUTBOX_POLL_INTERVAL  time.Duration `env:"OUTBOX_POLL_SECONDS"`
	OUTBOX_BATCH_SIZE     int           `env:"OUTBOX_BATCH_SIZE"`
	CONSUMER_MAX_ATTEMPTS int           `env:"CONSUMER_MAX_ATTEMPTS"`

	DRAFT_TTL         time.Duration `env:"DRAFT_TTL_MINUTES"`
	BUSINESS_NAME     string        `env:"BUSINESS_NAME"`
	BUSINESS_TIMEZONE string        `env:"BUSINESS_TIMEZONE"`
	PROMO_CODES       []string      `env:"PROMO_CODES"`
	STAFF_PHONES      []string      `env:"STAFF_PHONES"`

	TWILIO_SID   string `env:"TWILIO_SID"`
	TWILIO_TOKEN string `env:"TWILIO_TOKEN"`
	TWILIO_PHONE string `env:"TWILIO_PHONE"`

	RAFFLE_WEBHOOK_URL    string `env:"RAFFLE_WEBHOOK_URL"`
	RAFFLE_WEBHOOK_SECRET string `env:"RAFFLE_WEBHOOK_SECRET"`

	ADMIN_TOKEN_HASH string `env:"ADMIN_TOKEN_HASH"`

	OTEL_SERVICE_NAME           string `env:"OTEL_SERVICE_NAME"`
	OTEL_EXPORTER_OTLP_ENDPOINT string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTEL_EXPORTER_OTLP_INSECURE bool   `env:"OTEL_EXPORTER_OTLP_INSECURE"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		APP_ENV:   os.Getenv("APP_ENV"),
		HTTP_PORT: os.Getenv("HTTP_PORT"),
		DB_STRING: os.Getenv("DB_STRING"),

		KAFKA_BROKERS:      readString("KAFKA_BROKERS", "localhost:9092"),
		KAFKA_GROUP_ID:     readString("KAFKA_GROUP_ID", "laundry-notify"),
		KAFKA_ORDERS_TOPIC: readString("KAFKA_ORDERS_TOPIC", "orders.created"),
		KAFKA_RAFFLE_TOPIC: readString("KAFKA_RAFFLE_TOPIC", "raffle.created"),

		OUTBOX_POLL_INTERVAL:  readDurationSeconds("OUTBOX_POLL_SECONDS", 2),
		OUTBOX_BATCH_SIZE:     readInt("OUTBOX_BATCH_SIZE", 50),
		CONSUMER_MAX_ATTEMPTS: readInt("CONSUMER_MAX_ATTEMPTS", 5),

		DRAFT_TTL:         time.Duration(readInt("DRAFT_TTL_MINUTES", 60)) * time.Minute,
		BUSINESS_NAME:     readString("BUSINESS_NAME", "The Laundry Hub SF"),
		BUSINESS_TIMEZONE: readString("BUSINESS_TIMEZONE", "America/Los_Angeles"),
		PROMO_CODES:       readList("PROMO_CODES"),
		STAFF_PHONES:      readList("STAFF_PHONES"),

		TWILIO_SID:   os.Getenv("TWILIO_SID"),
		TWILIO_TOKEN: os.Getenv("TWILIO_TOKEN"),
		TWILIO_PHONE: os.Getenv("TWILIO_PHONE"),

		RAFFLE_WEBHOOK_URL:    os.Getenv("RAFFLE_WEBHOOK_URL"),
		RAFFLE_WEBHOOK_SECRET: os.Getenv("RAFFLE_WEBHOOK_SECRET"),

		ADMIN_TOKEN_HASH: os.Getenv("ADMIN_TOKEN_HASH"),

		OTEL_SERVICE_NAME:           readString("OTEL_SERVICE_NAME", "laundry-intake-service"),
		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTEL_EXPORTER_OTLP_INSECURE: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
	}

	if cfg.HTTP_PORT == "" {
		cfg.HTTP_PORT = "8080"
	}
	if cfg.DB_STRING == "" {
		return nil, errors.New("DB_STRING is required")
	}
	if cfg.RAFFLE_WEBHOOK_URL != "" && cfg.RAFFLE_WEBHOOK_SECRET == "" {
		return nil, errors.New("RAFFLE_WEBHOOK_SECRET is required when RAFFLE_WEBHOOK_URL is set")
	}

	return cfg, nil
}

// TwilioEnabled reports whether all three messaging secrets were supplied.
func (c *Config) TwilioEnabled() bool {
	return c.TWILIO_SID != "" && c.TWILIO_TOKEN != "" && c.TWILIO_PHONE != ""
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.BUSINESS_TIMEZONE)
}

func readString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// readList splits a comma separated variable, dropping empty items.
func readList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
