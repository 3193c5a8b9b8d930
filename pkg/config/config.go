package config

import (
	"errors"
	"fmt"
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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Presence PresenceConfig
	Registry RegistryConfig
	Worker   WorkerConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PresenceConfig holds the day-planning business limits.
type PresenceConfig struct {
	DailyCapMinutes int
	MaxRangeDays    int
	DefaultTimezone string
}

// RegistryConfig tunes the status/office catalog cache.
type RegistryConfig struct {
	TTL                time.Duration
	SharedCacheEnabled bool
	SharedCacheTTL     time.Duration
}

// WorkerConfig controls the background presence snapshot job.
type WorkerConfig struct {
	Enabled              bool
	PresenceSnapshotCron string
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSL_MODE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), time.Hour),
		AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Presence = PresenceConfig{
		DailyCapMinutes: v.GetInt("PRESENCE_DAILY_CAP_MINUTES"),
		MaxRangeDays:    v.GetInt("PRESENCE_MAX_RANGE_DAYS"),
		DefaultTimezone: strings.TrimSpace(v.GetString("PRESENCE_DEFAULT_TIMEZONE")),
	}

	cfg.Registry = RegistryConfig{
		TTL:                parseDuration(v.GetString("REGISTRY_CACHE_TTL"), time.Minute),
		SharedCacheEnabled: v.GetBool("REGISTRY_SHARED_CACHE"),
		SharedCacheTTL:     parseDuration(v.GetString("REGISTRY_SHARED_CACHE_TTL"), time.Minute),
	}

	cfg.Worker = WorkerConfig{
		Enabled:              v.GetBool("ENABLE_PRESENCE_WORKER"),
		PresenceSnapshotCron: v.GetString("PRESENCE_SNAPSHOT_CRON"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the presence engine cannot run with.
func (c *Config) Validate() error {
	if c.Presence.DailyCapMinutes <= 0 {
		return fmt.Errorf("PRESENCE_DAILY_CAP_MINUTES must be positive, got %d", c.Presence.DailyCapMinutes)
	}
	if c.Presence.DailyCapMinutes > 24*60 {
		return fmt.Errorf("PRESENCE_DAILY_CAP_MINUTES cannot exceed one day, got %d", c.Presence.DailyCapMinutes)
	}
	if c.Presence.MaxRangeDays <= 0 {
		return fmt.Errorf("PRESENCE_MAX_RANGE_DAYS must be positive, got %d", c.Presence.MaxRangeDays)
	}
	if _, err := time.LoadLocation(c.Presence.DefaultTimezone); err != nil || c.Presence.DefaultTimezone == "" {
		return fmt.Errorf("PRESENCE_DEFAULT_TIMEZONE %q is not a valid IANA zone", c.Presence.DefaultTimezone)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "helpdesk")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "helpdesk")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PRESENCE_DAILY_CAP_MINUTES", 480)
	v.SetDefault("PRESENCE_MAX_RANGE_DAYS", 30)
	v.SetDefault("PRESENCE_DEFAULT_TIMEZONE", "America/Los_Angeles")

	v.SetDefault("REGISTRY_CACHE_TTL", "60s")
	v.SetDefault("REGISTRY_SHARED_CACHE", false)
	v.SetDefault("REGISTRY_SHARED_CACHE_TTL", "60s")

	v.SetDefault("ENABLE_PRESENCE_WORKER", true)
	v.SetDefault("PRESENCE_SNAPSHOT_CRON", "@every 1m")
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
