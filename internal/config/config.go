package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// API server configuration
	API APIConfig

	// Tracker engine configuration
	Tracker TrackerConfig

	// Upstream integrations
	Device      DeviceConfig
	Portfolio   PortfolioConfig
	ChainLookup ChainLookupConfig
	Logo        LogoConfig

	// Notification channels
	Notify NotifyConfig

	// Logging configuration
	Log LogConfig
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"foliowatch"`
	Password        string        `envconfig:"DB_PASSWORD" default:"foliowatch"`
	Name            string        `envconfig:"DB_NAME" default:"foliowatch"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8081"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    int           `envconfig:"API_RATE_LIMIT_RPS" default:"100"`
	CacheTTL        time.Duration `envconfig:"API_CACHE_TTL" default:"30s"`
}

// TrackerConfig holds background engine settings
type TrackerConfig struct {
	MetricsPort     int           `envconfig:"TRACKER_METRICS_PORT" default:"8080"`
	RefreshInterval time.Duration `envconfig:"TRACKER_REFRESH_INTERVAL" default:"5m"`
	AlertInterval   time.Duration `envconfig:"TRACKER_ALERT_INTERVAL" default:"1m"`
	FeedCycleTime   time.Duration `envconfig:"TRACKER_FEED_CYCLE_TIME" default:"60s"`
	WorkerCount     int           `envconfig:"TRACKER_WORKER_COUNT" default:"4"`
}

// DeviceConfig holds display device connection settings.
// The device lives on the local network and protects its endpoints
// with HTTP digest authentication.
type DeviceConfig struct {
	BaseURL        string        `envconfig:"DEVICE_BASE_URL" default:""`
	Username       string        `envconfig:"DEVICE_USERNAME" default:""`
	Password       string        `envconfig:"DEVICE_PASSWORD" default:""`
	RequestTimeout time.Duration `envconfig:"DEVICE_REQUEST_TIMEOUT" default:"10s"`
	RateLimitRPS   float64       `envconfig:"DEVICE_RATE_LIMIT_RPS" default:"2"`
}

// PortfolioConfig holds portfolio API settings (x-api-key header auth)
type PortfolioConfig struct {
	BaseURL        string        `envconfig:"PORTFOLIO_BASE_URL" default:"https://openapi.taptools.io/api/v1"`
	APIKey         string        `envconfig:"PORTFOLIO_API_KEY" default:""`
	RequestTimeout time.Duration `envconfig:"PORTFOLIO_REQUEST_TIMEOUT" default:"30s"`
	RateLimitRPS   float64       `envconfig:"PORTFOLIO_RATE_LIMIT_RPS" default:"5"`
}

// ChainLookupConfig holds chain lookup API settings (project_id header auth)
type ChainLookupConfig struct {
	BaseURL        string        `envconfig:"CHAINLOOKUP_BASE_URL" default:"https://cardano-mainnet.blockfrost.io/api/v0"`
	ProjectID      string        `envconfig:"CHAINLOOKUP_PROJECT_ID" default:""`
	RequestTimeout time.Duration `envconfig:"CHAINLOOKUP_REQUEST_TIMEOUT" default:"30s"`
	RateLimitRPS   float64       `envconfig:"CHAINLOOKUP_RATE_LIMIT_RPS" default:"10"`
}

// LogoConfig holds logo metadata API settings
type LogoConfig struct {
	BaseURL        string        `envconfig:"LOGO_BASE_URL" default:""`
	APIKey         string        `envconfig:"LOGO_API_KEY" default:""`
	RequestTimeout time.Duration `envconfig:"LOGO_REQUEST_TIMEOUT" default:"15s"`
	RateLimitRPS   float64       `envconfig:"LOGO_RATE_LIMIT_RPS" default:"5"`
	CacheTTL       time.Duration `envconfig:"LOGO_CACHE_TTL" default:"24h"`
}

// NotifyConfig holds notification channel settings
type NotifyConfig struct {
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	TelegramChatID   int64   `envconfig:"TELEGRAM_CHAT_ID" default:"0"`
	TelegramRPS      float64 `envconfig:"TELEGRAM_RATE_LIMIT_RPS" default:"0.2"`

	SMTPHost string `envconfig:"SMTP_HOST" default:""`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER" default:""`
	SMTPPass string `envconfig:"SMTP_PASS" default:""`
	MailFrom string `envconfig:"MAIL_FROM" default:""`
	MailTo   string `envconfig:"MAIL_TO" default:""`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
