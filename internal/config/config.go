package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	S3        S3Config
	Mongo     MongoConfig
	App       AppConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	LogLevel  string
}

type ServerConfig struct {
	Host           string
	Port           string
	TrustedProxies []string
}

type S3Config struct {
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	EnsureBucket    bool
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type AppConfig struct {
	MaxUploadSize  int64
	AllowedFormats []string
	DefaultLimit   int64
	MaxLimit       int64
	UniqueOfferID  bool
}

type RateLimitConfig struct {
	Backend   string
	Window    time.Duration
	UploadMax int64
	CreateMax int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var required = []string{"AWS_REGION", "S3_BUCKET", "MONGO_URI", "MONGO_DB_NAME"}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("PORT", "3000")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("S3_ENSURE_BUCKET", false)
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("MONGO_COLLECTION", "offers")
	v.SetDefault("OFFERS_DEFAULT_LIMIT", 50)
	v.SetDefault("OFFERS_MAX_LIMIT", 0)
	v.SetDefault("OFFERS_UNIQUE_ID", false)
	v.SetDefault("UPLOAD_MAX_SIZE", 10*1024*1024) // 10MB
	v.SetDefault("UPLOAD_ALLOWED_FORMATS", ".jpg,.jpeg,.png,.webp,.gif")
	v.SetDefault("RATE_LIMIT_BACKEND", BackendMemory)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("RATE_LIMIT_UPLOAD_MAX", 10)
	v.SetDefault("RATE_LIMIT_CREATE_MAX", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	var missing []string
	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetString("PORT"),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		S3: S3Config{
			Endpoint:        v.GetString("S3_ENDPOINT"),
			PublicBaseURL:   v.GetString("S3_PUBLIC_BASE_URL"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("S3_BUCKET"),
			Region:          v.GetString("AWS_REGION"),
			EnsureBucket:    v.GetBool("S3_ENSURE_BUCKET"),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("MONGO_URI"),
			Database:   v.GetString("MONGO_DB_NAME"),
			Collection: v.GetString("MONGO_COLLECTION"),
		},
		App: AppConfig{
			MaxUploadSize:  v.GetInt64("UPLOAD_MAX_SIZE"),
			AllowedFormats: splitList(strings.ToLower(v.GetString("UPLOAD_ALLOWED_FORMATS"))),
			DefaultLimit:   v.GetInt64("OFFERS_DEFAULT_LIMIT"),
			MaxLimit:       v.GetInt64("OFFERS_MAX_LIMIT"),
			UniqueOfferID:  v.GetBool("OFFERS_UNIQUE_ID"),
		},
		RateLimit: RateLimitConfig{
			Backend:   strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
			Window:    windowDuration(v),
			UploadMax: v.GetInt64("RATE_LIMIT_UPLOAD_MAX"),
			CreateMax: v.GetInt64("RATE_LIMIT_CREATE_MAX"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.RateLimit.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("RATE_LIMIT_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.RateLimit.Backend)
	}
	if c.RateLimit.Window < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %s", c.RateLimit.Window)
	}
	if c.RateLimit.UploadMax <= 0 || c.RateLimit.CreateMax <= 0 {
		return errors.New("rate limit thresholds must be positive")
	}
	if c.App.DefaultLimit <= 0 {
		return errors.New("OFFERS_DEFAULT_LIMIT must be positive")
	}
	if c.App.MaxUploadSize <= 0 {
		return errors.New("UPLOAD_MAX_SIZE must be positive")
	}
	return nil
}

// windowDuration reads RATE_LIMIT_WINDOW; a bare number is seconds ("60" == "60s").
func windowDuration(v *viper.Viper) time.Duration {
	if secs, err := strconv.ParseInt(strings.TrimSpace(v.GetString("RATE_LIMIT_WINDOW")), 10, 64); err == nil {
		return time.Duration(secs) * time.Second
	}
	return v.GetDuration("RATE_LIMIT_WINDOW")
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
