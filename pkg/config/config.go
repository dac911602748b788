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

// Cache drivers for the school data snapshot.
const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
	CacheDriverNone   = "none"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Sheet    SheetConfig
	School   SchoolConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Audit    AuditConfig
	JWT      JWTConfig
	Access   AccessConfig
	CORS     CORSConfig
	Log      LogConfig
}

// SheetConfig points at the spreadsheet web app backing the roster and history.
type SheetConfig struct {
	URL       string
	Timeout   time.Duration
	MockDelay time.Duration
}

// SchoolConfig holds calendar defaults.
type SchoolConfig struct {
	Timezone          string
	ReportDefaultDays int
}

// CacheConfig selects where the last good snapshot is kept.
type CacheConfig struct {
	Driver      string
	SnapshotTTL time.Duration
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
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuditConfig toggles the Postgres audit trail for mutations.
type AuditConfig struct {
	Enabled bool
	Workers int
	Retries int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AccessConfig carries the division password table.
type AccessConfig struct {
	DivisionPasswords map[string]string
	MasterPassword    string
	FallbackPassword  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Sheet = SheetConfig{
		URL:       strings.TrimSpace(v.GetString("SHEET_URL")),
		Timeout:   parseDuration(v.GetString("SHEET_TIMEOUT"), 15*time.Second),
		MockDelay: parseDuration(v.GetString("SHEET_MOCK_DELAY"), 0),
	}

	days := v.GetInt("REPORT_DEFAULT_DAYS")
	if days <= 0 {
		days = 7
	}
	cfg.School = SchoolConfig{
		Timezone:          v.GetString("SCHOOL_TIMEZONE"),
		ReportDefaultDays: days,
	}

	cfg.Cache = CacheConfig{
		Driver:      strings.ToLower(v.GetString("CACHE_DRIVER")),
		SnapshotTTL: parseDuration(v.GetString("SNAPSHOT_CACHE_TTL"), 7*24*time.Hour),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Audit = AuditConfig{
		Enabled: v.GetBool("ENABLE_AUDIT"),
		Workers: v.GetInt("AUDIT_WORKERS"),
		Retries: v.GetInt("AUDIT_RETRIES"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Access = AccessConfig{
		DivisionPasswords: parsePairs(v.GetString("DIVISION_PASSWORDS")),
		MasterPassword:    v.GetString("MASTER_PASSWORD"),
		FallbackPassword:  v.GetString("FALLBACK_PASSWORD"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SHEET_URL", "")
	v.SetDefault("SHEET_TIMEOUT", "15s")
	v.SetDefault("SHEET_MOCK_DELAY", "0s")

	v.SetDefault("SCHOOL_TIMEZONE", "Local")
	v.SetDefault("REPORT_DEFAULT_DAYS", 7)

	v.SetDefault("CACHE_DRIVER", CacheDriverMemory)
	v.SetDefault("SNAPSHOT_CACHE_TTL", "168h")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_attendance")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_AUDIT", false)
	v.SetDefault("AUDIT_WORKERS", 1)
	v.SetDefault("AUDIT_RETRIES", 3)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "sma-absence-api")

	v.SetDefault("DIVISION_PASSWORDS", "")
	v.SetDefault("MASTER_PASSWORD", "")
	v.SetDefault("FALLBACK_PASSWORD", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

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

// parsePairs reads "key=value;key=value". Semicolons separate entries so
// division names may contain commas.
func parsePairs(raw string) map[string]string {
	result := make(map[string]string)
	for _, entry := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		result[key] = value
	}
	return result
}
