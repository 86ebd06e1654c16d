package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration read from the environment.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver   string // postgres or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateCacheTTL  time.Duration

	CORSOrigins []string

	PricingConfigPaths []string
}

// Load reads configs/.env (when present) and the environment, applying defaults.
func Load() Config {
	_ = godotenv.Load("configs/.env")

	return Config{
		Port:     getenv("PORT", "8080"),
		GinMode:  getenv("GIN_MODE", "debug"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "postgres"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		SQLitePath: getenv("SQLITE_PATH", "importhub.db"),

		JWTSecret: strings.TrimSpace(getenv("JWT_SECRET", "")),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),
		RateCacheTTL:  time.Duration(getenvInt("RATE_CACHE_TTL_SECONDS", 300)) * time.Second,

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),

		PricingConfigPaths: splitList(getenv("PRICING_CONFIG_PATHS", "/etc/importhub,configs,.")),
	}
}

// PostgresDSN builds the connection string for the postgres driver.
func (c Config) PostgresDSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
