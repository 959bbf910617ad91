package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Email     EmailConfig     `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	Imaging   ImagingConfig   `yaml:"imaging"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string   `yaml:"host"`
	Port                int      `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	ClientURL           string   `yaml:"client_url"`
	CORSOrigins         []string `yaml:"cors_origins"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret       string `yaml:"secret"`
	ExpiryDays   int    `yaml:"expiry_days"`
	CookieName   string `yaml:"cookie_name"`
	CookieSecure bool   `yaml:"cookie_secure"`
}

// EmailConfig selects and configures the outbound mail transport
type EmailConfig struct {
	Provider        string         `yaml:"provider"` // "smtp", "sendgrid" or "log"
	From            string         `yaml:"from"`
	FromName        string         `yaml:"from_name"`
	SMTP            SMTPConfig     `yaml:"smtp"`
	SendGrid        SendGridConfig `yaml:"sendgrid"`
	QueueWorkers    int            `yaml:"queue_workers"`
	QueueSize       int            `yaml:"queue_size"`
	MaxRetries      int            `yaml:"max_retries"`
	FrontendBaseURL string         `yaml:"frontend_base_url"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type SendGridConfig struct {
	APIKey string `yaml:"api_key"`
}

// StorageConfig contains report image storage settings
type StorageConfig struct {
	Type          string      `yaml:"type"`       // "local" or "minio"
	UploadDir     string      `yaml:"upload_dir"` // For local storage
	BaseURL       string      `yaml:"base_url"`   // Public base URL images are served from
	MaxFileSizeMB int64       `yaml:"max_file_size_mb"`
	Minio         MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

// ImagingConfig controls recompression of uploaded report images
type ImagingConfig struct {
	MaxDimension          int   `yaml:"max_dimension"`
	JPEGQuality           int   `yaml:"jpeg_quality"`
	RecompressThresholdMB int64 `yaml:"recompress_threshold_mb"`
}

// CacheConfig contains leaderboard cache settings
type CacheConfig struct {
	Type       string `yaml:"type"` // "none" or "redis"
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (seconds precision, UTC)
type SchedulerConfig struct {
	RecountReportCounters   string `yaml:"recount_report_counters"`
	PointsDrift             string `yaml:"points_drift"`
	PurgeExpiredResetTokens string `yaml:"purge_expired_reset_tokens"`
}

// Load reads configuration from a YAML file. A .env file next to the working
// directory is applied to the process environment first, if present.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a Config from YAML bytes, applies environment overrides and
// defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)
	envInt("PORT", &c.Server.Port)
	envString("CLIENT_URL", &c.Server.ClientURL)

	// Database
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	// JWT
	envString("JWT_SECRET", &c.JWT.Secret)
	envInt("JWT_EXPIRY_DAYS", &c.JWT.ExpiryDays)
	envBool("JWT_COOKIE_SECURE", &c.JWT.CookieSecure)

	// Email
	envString("EMAIL_PROVIDER", &c.Email.Provider)
	envString("EMAIL_FROM", &c.Email.From)
	envString("SMTP_HOST", &c.Email.SMTP.Host)
	envInt("SMTP_PORT", &c.Email.SMTP.Port)
	envString("SMTP_USER", &c.Email.SMTP.User)
	envString("SMTP_PASSWORD", &c.Email.SMTP.Password)
	envString("SENDGRID_API_KEY", &c.Email.SendGrid.APIKey)

	// Storage
	envString("STORAGE_TYPE", &c.Storage.Type)
	envString("UPLOAD_DIR", &c.Storage.UploadDir)
	envString("STORAGE_BASE_URL", &c.Storage.BaseURL)
	envString("MINIO_ENDPOINT", &c.Storage.Minio.Endpoint)
	envString("MINIO_ACCESS_KEY", &c.Storage.Minio.AccessKey)
	envString("MINIO_SECRET_KEY", &c.Storage.Minio.SecretKey)
	envString("MINIO_BUCKET", &c.Storage.Minio.Bucket)

	// Cache
	envString("CACHE_TYPE", &c.Cache.Type)
	envString("REDIS_ADDR", &c.Cache.Addr)
	envString("REDIS_PASSWORD", &c.Cache.Password)

	// Log
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
}

func (c *Config) applyDefaults() {
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 30
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 60
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000", "https://reviwa.netlify.app"}
	}
	if c.Server.ClientURL != "" && !contains(c.Server.CORSOrigins, c.Server.ClientURL) {
		c.Server.CORSOrigins = append(c.Server.CORSOrigins, c.Server.ClientURL)
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.ExpiryDays == 0 {
		c.JWT.ExpiryDays = 30
	}
	if c.JWT.CookieName == "" {
		c.JWT.CookieName = "token"
	}

	if c.Email.Provider == "" {
		c.Email.Provider = "log"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Reviwa"
	}
	if c.Email.QueueWorkers == 0 {
		c.Email.QueueWorkers = 2
	}
	if c.Email.QueueSize == 0 {
		c.Email.QueueSize = 100
	}
	if c.Email.MaxRetries == 0 {
		c.Email.MaxRetries = 3
	}
	if c.Email.FrontendBaseURL == "" {
		c.Email.FrontendBaseURL = c.Server.ClientURL
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.MaxFileSizeMB == 0 {
		c.Storage.MaxFileSizeMB = 10
	}

	if c.Imaging.MaxDimension == 0 {
		c.Imaging.MaxDimension = 1920
	}
	if c.Imaging.JPEGQuality == 0 {
		c.Imaging.JPEGQuality = 70
	}
	if c.Imaging.RecompressThresholdMB == 0 {
		c.Imaging.RecompressThresholdMB = 2
	}

	if c.Cache.Type == "" {
		c.Cache.Type = "none"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 60
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Scheduler.RecountReportCounters == "" {
		c.Scheduler.RecountReportCounters = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.PointsDrift == "" {
		c.Scheduler.PointsDrift = "0 30 2 * * *" // 2:30 AM UTC
	}
	if c.Scheduler.PurgeExpiredResetTokens == "" {
		c.Scheduler.PurgeExpiredResetTokens = "0 0 * * * *" // hourly
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	switch c.Email.Provider {
	case "log":
	case "smtp":
		if c.Email.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Email.SMTP.Port <= 0 || c.Email.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.SMTP.Port)
		}
	case "sendgrid":
		if c.Email.SendGrid.APIKey == "" {
			return fmt.Errorf("SendGrid API key is required")
		}
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}
	if c.Email.Provider != "log" && c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required")
		}
	case "minio":
		if c.Storage.Minio.Endpoint == "" || c.Storage.Minio.Bucket == "" {
			return fmt.Errorf("minio endpoint and bucket are required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	switch c.Cache.Type {
	case "none":
	case "redis":
		if c.Cache.Addr == "" {
			return fmt.Errorf("redis address is required")
		}
	default:
		return fmt.Errorf("unsupported cache type: %s", c.Cache.Type)
	}

	if c.Imaging.JPEGQuality < 1 || c.Imaging.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100")
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
