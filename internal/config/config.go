package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	S3       S3Config       `yaml:"s3"`
	Content  ContentConfig  `yaml:"content"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
}

// GetDSN returns DATABASE URL when set, otherwise a key/value DSN built from the fields
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ListTTL  time.Duration `yaml:"list_ttl"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	// PublicBaseURL serves attachments through a CDN instead of the bucket URL
	PublicBaseURL string `yaml:"public_base_url"`
}

// ContentConfig holds the upload and excerpt limits applied to every content kind
type ContentConfig struct {
	MaxAttachments   int   `yaml:"max_attachments"`
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes"`
	ExcerptLength    int   `yaml:"excerpt_length"`
}

type JobsConfig struct {
	BackfillSchedule    string        `yaml:"backfill_schedule"`
	OrphanSweepSchedule string        `yaml:"orphan_sweep_schedule"`
	RunTimeout          time.Duration `yaml:"run_timeout"`
}

type NotifyConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file or environment overrides are present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Logger: LoggerConfig{Level: "info"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "school_portal",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,

			SlowQueryThreshold: 200 * time.Millisecond,
		},
		Redis: RedisConfig{
			ListTTL: time.Minute,
		},
		Content: ContentConfig{
			MaxAttachments:   5,
			MaxFileSizeBytes: 10 * 1024 * 1024,
			ExcerptLength:    120,
		},
		Jobs: JobsConfig{
			BackfillSchedule:    "@every 1h",
			OrphanSweepSchedule: "0 4 * * *",
			RunTimeout:          5 * time.Minute,
		},
		Notify: NotifyConfig{
			Timeout: 3 * time.Second,
		},
	}
}

// Load reads the YAML file at path (if it exists) over the defaults and applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the limits that the content core relies on
func (c *Config) Validate() error {
	if c.Content.MaxAttachments <= 0 {
		return fmt.Errorf("content.max_attachments must be positive")
	}
	if c.Content.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("content.max_file_size_bytes must be positive")
	}
	if c.Content.ExcerptLength <= 0 {
		return fmt.Errorf("content.excerpt_length must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	// Database
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Database.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.DBName = name
	}

	// Redis
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}

	// JWT
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	// S3
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.S3.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.S3.Endpoint = endpoint
	}
	if accessKey := os.Getenv("S3_ACCESS_KEY"); accessKey != "" {
		cfg.S3.AccessKey = accessKey
	}
	if secretKey := os.Getenv("S3_SECRET_KEY"); secretKey != "" {
		cfg.S3.SecretKey = secretKey
	}
	if publicURL := os.Getenv("S3_PUBLIC_BASE_URL"); publicURL != "" {
		cfg.S3.PublicBaseURL = publicURL
	}

	// Notification endpoint for comment moderation
	if notifyURL := os.Getenv("NOTIFY_BASE_URL"); notifyURL != "" {
		cfg.Notify.BaseURL = notifyURL
	}
	if notifyKey := os.Getenv("NOTIFY_API_KEY"); notifyKey != "" {
		cfg.Notify.APIKey = notifyKey
	}
}
