package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Mail     MailConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PATCH,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Colombo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

// Staff tokens for the admin API are issued elsewhere; this service only verifies them.
type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"12h"`
}

type CheckoutConfig struct {
	DuplicateWindow      time.Duration `envconfig:"CHECKOUT_DUPLICATE_WINDOW" default:"30s"`
	AllowVariantFallback bool          `envconfig:"CHECKOUT_ALLOW_VARIANT_FALLBACK" default:"false"`
	OpsMailbox           string        `envconfig:"CHECKOUT_OPS_MAILBOX"`
	DefaultPayment       string        `envconfig:"CHECKOUT_DEFAULT_PAYMENT" default:"COD"`
	NotifyWorkers        int           `envconfig:"CHECKOUT_NOTIFY_WORKERS" default:"2"`
	NotifyQueue          int           `envconfig:"CHECKOUT_NOTIFY_QUEUE" default:"64"`
	NotifyTimeout        time.Duration `envconfig:"CHECKOUT_NOTIFY_TIMEOUT" default:"15s"`
	Currency             string        `envconfig:"CHECKOUT_CURRENCY" default:"LKR"`
	BankDetails          string        `envconfig:"CHECKOUT_BANK_DETAILS"`
}

// Credentials are optional at startup; the sender reports them as missing per message.
type MailConfig struct {
	Host     string `envconfig:"MAIL_HOST" default:"smtp.zoho.com"`
	Port     int    `envconfig:"MAIL_PORT" default:"465"`
	Username string `envconfig:"MAIL_USERNAME"`
	Password string `envconfig:"MAIL_PASSWORD"`
	FromName string `envconfig:"MAIL_FROM_NAME" default:"Storefront"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c MailConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-for-staff-tokens",
			Duration: "1h",
		},
		Checkout: CheckoutConfig{
			DuplicateWindow: 30 * time.Second,
			OpsMailbox:      "ops@example.com",
			DefaultPayment:  "COD",
			NotifyWorkers:   1,
			NotifyQueue:     16,
			NotifyTimeout:   time.Second,
			Currency:        "LKR",
			BankDetails:     "Storefront Ltd\n0000000000\nTest Bank",
		},
	}
}
