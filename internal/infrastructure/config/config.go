package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int
	MigrationsPath string // golang-migrate source URL; empty skips migrations
}

type KafkaConfig struct {
	Brokers       []string
	EventsTopic   string
	ActivityTopic string // empty disables the activity consumer
	ConsumerGroup string
	TLS           bool
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type TelemetryConfig struct {
	OTLPEndpoint string // empty disables tracing export
	SampleRatio  float64
}

type Config struct {
	GRPCPort          int
	HTTPPort          int
	DB                DatabaseConfig
	Kafka             KafkaConfig
	Auth              AuthConfig
	TLS               TLSConfig
	Telemetry         TelemetryConfig
	LogLevel          string
	LogFormat         string
	ScoreRefreshCron  string
	ScoreRefreshSince time.Duration
	EnableReflection  bool
	ServiceName       string
}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if c.ScoreRefreshCron != "" {
		if _, err := cron.ParseStandard(c.ScoreRefreshCron); err != nil {
			errs = append(errs, fmt.Errorf("SCORE_REFRESH_CRON %q: %w", c.ScoreRefreshCron, err))
		}
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATIO %v outside [0, 1]", c.Telemetry.SampleRatio))
	}
	return errors.Join(errs...)
}

func Load() Config {
	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9091),
		HTTPPort: getEnvInt("HTTP_PORT", 8091),
		DB: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "microlend"),
			Password:       getEnv("DB_PASSWORD", ""),
			Name:           getEnv("DB_NAME", "microlend"),
			SSLMode:        getEnv("DB_SSLMODE", "require"),
			MaxConns:       getEnvInt("DB_MAX_CONNS", 10),
			MigrationsPath: os.Getenv("DB_MIGRATIONS_PATH"),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS", "localhost:9092"),
			EventsTopic:   getEnv("KAFKA_TOPIC", "scoring.events"),
			ActivityTopic: os.Getenv("KAFKA_ACTIVITY_TOPIC"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "scoring-service"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  os.Getenv("KAFKA_SASL_USERNAME"),
			SASLPassword:  os.Getenv("KAFKA_SASL_PASSWORD"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			JWTIssuer: getEnv("JWT_ISSUER", "microlend"),
			TokenTTL:  getEnvDuration("JWT_TTL", time.Hour),
		},
		TLS: TLSConfig{
			CertFile: os.Getenv("TLS_CERT_FILE"),
			KeyFile:  os.Getenv("TLS_KEY_FILE"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRatio:  getEnvFloat("OTEL_SAMPLE_RATIO", 1),
		},
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		ScoreRefreshCron:  getEnv("SCORE_REFRESH_CRON", "@daily"),
		ScoreRefreshSince: getEnvDuration("SCORE_REFRESH_LOOKBACK", 24*time.Hour),
		EnableReflection:  getEnvBool("GRPC_REFLECTION", false),
		ServiceName:       "scoring-service",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
