package config

import (
	"errors"
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

	Upstream UpstreamConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Search   SearchConfig
}

// UpstreamConfig describes the media backend account the snapshot is
// ingested from.
type UpstreamConfig struct {
	CloudName      string
	APIKey         string
	APISecret      string
	BaseURL        string
	DeliveryURL    string
	PageSize       int
	RequestTimeout time.Duration
	SignURLs       bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SearchConfig tunes the query-side result cache.
type SearchConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	pageSize := v.GetInt("UPSTREAM_PAGE_SIZE")
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 500
	}
	cfg.Upstream = UpstreamConfig{
		CloudName:      v.GetString("UPSTREAM_CLOUD_NAME"),
		APIKey:         v.GetString("UPSTREAM_API_KEY"),
		APISecret:      v.GetString("UPSTREAM_API_SECRET"),
		BaseURL:        v.GetString("UPSTREAM_BASE_URL"),
		DeliveryURL:    v.GetString("UPSTREAM_DELIVERY_URL"),
		PageSize:       pageSize,
		RequestTimeout: parseDuration(v.GetString("UPSTREAM_REQUEST_TIMEOUT"), 30*time.Second),
		SignURLs:       v.GetBool("UPSTREAM_SIGN_URLS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Search = SearchConfig{
		CacheEnabled: v.GetBool("ENABLE_SEARCH_CACHE"),
		CacheTTL:     parseDuration(v.GetString("SEARCH_CACHE_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_CLOUD_NAME", "")
	v.SetDefault("UPSTREAM_API_KEY", "")
	v.SetDefault("UPSTREAM_API_SECRET", "")
	v.SetDefault("UPSTREAM_BASE_URL", "https://api.cloudinary.com/v1_1")
	v.SetDefault("UPSTREAM_DELIVERY_URL", "https://res.cloudinary.com")
	v.SetDefault("UPSTREAM_PAGE_SIZE", 500)
	v.SetDefault("UPSTREAM_REQUEST_TIMEOUT", "30s")
	v.SetDefault("UPSTREAM_SIGN_URLS", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SEARCH_CACHE", false)
	v.SetDefault("SEARCH_CACHE_TTL", "10m")
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
