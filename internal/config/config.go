package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Search   SearchConfig
	Env      string
}

type ServerConfig struct {
	Host           string
	Port           int
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	AdminRole string
}

type SearchConfig struct {
	DefaultLimit     int
	SnippetLength    int
	StoredRankWeight float64
	EngineRankWeight float64
	StaleAfter       time.Duration
	CacheTTL         time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	rateRPS, err := getEnvFloat("RATE_LIMIT_RPS", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	rateBurst, err := getEnvInt("RATE_LIMIT_BURST", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	busyTimeout, err := getEnvInt("DB_BUSY_TIMEOUT_MS", 5000)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_BUSY_TIMEOUT_MS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	defaultLimit, err := getEnvInt("SEARCH_DEFAULT_LIMIT", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_DEFAULT_LIMIT: %w", err)
	}

	snippetLength, err := getEnvInt("SEARCH_SNIPPET_LENGTH", 160)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_SNIPPET_LENGTH: %w", err)
	}

	storedWeight, err := getEnvFloat("SEARCH_STORED_RANK_WEIGHT", 0.7)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_STORED_RANK_WEIGHT: %w", err)
	}

	engineWeight, err := getEnvFloat("SEARCH_ENGINE_RANK_WEIGHT", 0.3)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_ENGINE_RANK_WEIGHT: %w", err)
	}

	staleMinutes, err := getEnvInt("SEARCH_INDEX_STALE_MINUTES", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_INDEX_STALE_MINUTES: %w", err)
	}

	cacheSeconds, err := getEnvInt("SEARCH_CACHE_TTL_SECONDS", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_CACHE_TTL_SECONDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			CORSOrigins:    splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			RateLimitRPS:   rateRPS,
			RateLimitBurst: rateBurst,
		},
		Database: DatabaseConfig{
			Path:        getEnv("DB_PATH", "./database/proposal_system.db"),
			BusyTimeout: time.Duration(busyTimeout) * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			AdminRole: getEnv("ADMIN_ROLE", "admin"),
		},
		Search: SearchConfig{
			DefaultLimit:     defaultLimit,
			SnippetLength:    snippetLength,
			StoredRankWeight: storedWeight,
			EngineRankWeight: engineWeight,
			StaleAfter:       time.Duration(staleMinutes) * time.Minute,
			CacheTTL:         time.Duration(cacheSeconds) * time.Second,
		},
		Env: getEnv("APP_ENV", "development"),
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.Path == "" {
		missing = append(missing, "DB_PATH")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
