package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (upstream URL, secrets, etc.)
// - default: Values common across all environments (timeouts, retry bounds, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server          ServerConfig
	Upstream        UpstreamConfig
	CredentialStore CredentialStoreConfig
	Events          EventsConfig
	Payment         PaymentConfig
	CORS            CORSConfig
	Log             LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type UpstreamConfig struct {
	BaseURL   string        `envconfig:"UPSTREAM_BASE_URL" required:"true"`
	Timeout   time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"15s"`
	UserAgent string        `envconfig:"UPSTREAM_USER_AGENT" default:"venue-booking-gateway/1.0"`
}

// Backend is one of memory, redis or postgres.
type CredentialStoreConfig struct {
	Backend  string `envconfig:"CREDENTIAL_BACKEND" default:"memory"`
	Key      string `envconfig:"CREDENTIAL_KEY" default:"accessToken"`
	RedisURL string `envconfig:"CREDENTIAL_REDIS_URL" default:"redis://localhost:6379/0"`
	DB       DBConfig
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"gateway"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"gateway"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
}

// Empty Brokers disables Kafka; events are then only logged.
type EventsConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS" default:""`
	SessionTopic string        `envconfig:"KAFKA_SESSION_TOPIC" default:"gateway.session"`
	PaymentTopic string        `envconfig:"KAFKA_PAYMENT_TOPIC" default:"gateway.payment"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"5s"`
}

type PaymentConfig struct {
	MaxRetries           int           `envconfig:"PAYMENT_MAX_RETRIES" default:"3"`
	FailureRecordTimeout time.Duration `envconfig:"PAYMENT_FAILURE_RECORD_TIMEOUT" default:"5s"`
	AttemptTTL           time.Duration `envconfig:"PAYMENT_ATTEMPT_TTL" default:"30m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

// SandboxConfig configures the in-memory server of record used for local development.
type SandboxConfig struct {
	Port                 string        `envconfig:"SANDBOX_PORT" default:"8090"`
	JWTSecret            string        `envconfig:"SANDBOX_JWT_SECRET" required:"true"`
	AccessTokenDuration  time.Duration `envconfig:"SANDBOX_ACCESS_TOKEN_DURATION" default:"5m"`
	RefreshTokenDuration time.Duration `envconfig:"SANDBOX_REFRESH_TOKEN_DURATION" default:"168h"`
	SigningKey           string        `envconfig:"SANDBOX_PAYMENT_SIGNING_KEY" required:"true"`
	Cookie               CookieConfig
	Log                  LogConfig
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.Payment.MaxRetries <= 0 {
		return Config{}, fmt.Errorf("PAYMENT_MAX_RETRIES must be positive, got %d", cfg.Payment.MaxRetries)
	}
	return cfg, nil
}

func LoadSandboxConfig() (SandboxConfig, error) {
	var cfg SandboxConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return SandboxConfig{}, fmt.Errorf("failed to process sandbox env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Upstream: UpstreamConfig{
			BaseURL:   "http://localhost:18090",
			Timeout:   5 * time.Second,
			UserAgent: "venue-booking-gateway/test",
		},
		CredentialStore: CredentialStoreConfig{
			Backend: "memory",
			Key:     "accessToken",
		},
		Events: EventsConfig{
			SessionTopic: "gateway.session",
			PaymentTopic: "gateway.payment",
			WriteTimeout: time.Second,
		},
		Payment: PaymentConfig{
			MaxRetries:           3,
			FailureRecordTimeout: time.Second,
			AttemptTTL:           time.Minute,
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
	}
}

func NewTestSandboxConfig() SandboxConfig {
	return SandboxConfig{
		Port:                 "18090",
		JWTSecret:            "sandbox-test-secret",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
		SigningKey:           "sandbox-signing-key",
		Log: LogConfig{
			Level:          "error",
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
	}
}
