package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers understood by the object store factory.
const (
	StorageSeaweedFS = "seaweedfs"
	StorageMinIO     = "minio"
	StorageLocal     = "local"
)

// Rate limit backends.
const (
	RateLimitRedis  = "redis"
	RateLimitMemory = "memory"
)

type Config struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	CORS     CORSConfig
	Log      LogConfig
	Storage  StorageConfig
	Upload   UploadConfig
	Mail     MailConfig
	Jobs     JobsConfig
	Metrics  MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// SessionConfig controls the anonymous session cookie used to identify raters without an account.
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
	Backend    string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// StorageConfig selects and configures the content store holding watermarked documents.
type StorageConfig struct {
	Driver         string
	SeaweedMaster  string
	Timeout        time.Duration
	LocalDir       string
	LocalBaseURL   string
	MinIO          MinIOConfig
	BreakerEnabled bool
	MaxObjectBytes int64
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// UploadConfig bounds document intake.
type UploadConfig struct {
	MaxFileSizeBytes  int64
	RateLimit         int
	RateWindow        time.Duration
	RateLimitBackend  string
	RateLimitFailOpen bool
}

type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

type JobsConfig struct {
	Workers           int
	Retries           int
	ResetSweeperSpec  string
	SchedulerDisabled bool
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), time.Hour),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SESSION_SECRET"),
		CookieName: v.GetString("SESSION_COOKIE_NAME"),
		TTL:        parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		Secure:     v.GetBool("SESSION_COOKIE_SECURE"),
		Backend:    v.GetString("SESSION_BACKEND"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:      v.GetString("LOG_LEVEL"),
		Format:     v.GetString("LOG_FORMAT"),
		File:       v.GetString("LOG_FILE"),
		MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
	}

	cfg.Storage = StorageConfig{
		Driver:        strings.ToLower(v.GetString("STORAGE_DRIVER")),
		SeaweedMaster: v.GetString("SEAWEEDFS_MASTER_URL"),
		Timeout:       parseDuration(v.GetString("STORAGE_TIMEOUT"), 30*time.Second),
		LocalDir:      v.GetString("STORAGE_LOCAL_DIR"),
		LocalBaseURL:  v.GetString("STORAGE_LOCAL_BASE_URL"),
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			PublicURL: v.GetString("MINIO_PUBLIC_URL"),
		},
		BreakerEnabled: v.GetBool("STORAGE_BREAKER_ENABLED"),
	}

	maxUpload := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 20 * 1024 * 1024
	}
	cfg.Storage.MaxObjectBytes = v.GetInt64("STORAGE_MAX_OBJECT_BYTES")
	if cfg.Storage.MaxObjectBytes <= 0 {
		// watermarking can grow a document past the upload cap
		cfg.Storage.MaxObjectBytes = 2 * maxUpload
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeBytes:  maxUpload,
		RateLimit:         v.GetInt("UPLOAD_RATE_LIMIT"),
		RateWindow:        parseDuration(v.GetString("UPLOAD_RATE_WINDOW"), 15*time.Minute),
		RateLimitBackend:  strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
		RateLimitFailOpen: v.GetBool("RATE_LIMIT_FAIL_OPEN"),
	}

	cfg.Mail = MailConfig{
		Host:        v.GetString("SMTP_HOST"),
		Port:        v.GetInt("SMTP_PORT"),
		Username:    v.GetString("SMTP_USERNAME"),
		Password:    v.GetString("SMTP_PASSWORD"),
		From:        v.GetString("MAIL_FROM"),
		FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
	}

	cfg.Jobs = JobsConfig{
		Workers:           v.GetInt("JOBS_WORKERS"),
		Retries:           v.GetInt("JOBS_RETRIES"),
		ResetSweeperSpec:  v.GetString("RESET_TOKEN_SWEEP_SPEC"),
		SchedulerDisabled: v.GetBool("DISABLE_SCHEDULER"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "share2teach")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "1h")

	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_COOKIE_NAME", "s2t_sid")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_BACKEND", RateLimitRedis)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	v.SetDefault("STORAGE_DRIVER", StorageSeaweedFS)
	v.SetDefault("SEAWEEDFS_MASTER_URL", "http://localhost:9333")
	v.SetDefault("STORAGE_TIMEOUT", "30s")
	v.SetDefault("STORAGE_LOCAL_DIR", "./uploads")
	v.SetDefault("STORAGE_LOCAL_BASE_URL", "http://localhost:5000/files")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_BUCKET", "share2teach")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("STORAGE_BREAKER_ENABLED", false)
	v.SetDefault("STORAGE_MAX_OBJECT_BYTES", 0)

	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 20*1024*1024)
	v.SetDefault("UPLOAD_RATE_LIMIT", 100)
	v.SetDefault("UPLOAD_RATE_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_BACKEND", RateLimitRedis)
	v.SetDefault("RATE_LIMIT_FAIL_OPEN", false)

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "no-reply@share2teach.local")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")

	v.SetDefault("JOBS_WORKERS", 1)
	v.SetDefault("JOBS_RETRIES", 3)
	v.SetDefault("RESET_TOKEN_SWEEP_SPEC", "@hourly")
	v.SetDefault("DISABLE_SCHEDULER", false)

	v.SetDefault("ENABLE_METRICS", true)
}

// viper reports an explicit config file that does not exist as a plain fs error.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
