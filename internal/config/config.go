package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	AppPort       string
	StorageDriver string
	DatabaseURL   string
	SQLitePath    string
	JWTSecret     string
	AllowedOrigin string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  int
	WriteRateLimit int

	LogLevel string
	LogJSON  bool
}

// ClientConfig configures the terminal client and the smoke checker.
type ClientConfig struct {
	APIURL   string
	Token    string
	PageSize int
	LogLevel string
}

// Load reads the server configuration from env (and .env when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	driver := os.Getenv("STORAGE_DRIVER")
	if driver == "" {
		driver = StorageSQLite
		if dbURL != "" {
			driver = StoragePostgres
		}
	}
	switch driver {
	case StoragePostgres:
		if dbURL == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}
	case StorageSQLite:
	default:
		return nil, errors.New("STORAGE_DRIVER must be postgres or sqlite")
	}

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		StorageDriver:  driver,
		DatabaseURL:    dbURL,
		SQLitePath:     getEnv("SQLITE_PATH", "todos.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigin:  os.Getenv("ALLOWED_ORIGIN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getInt("REDIS_DB", 0),
		APIRateLimit:   getInt("API_RATE_LIMIT", 120),
		APIRateWindow:  getInt("API_RATE_WINDOW_SECONDS", 60),
		WriteRateLimit: getInt("WRITE_RATE_LIMIT", 60),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}, nil
}

// LoadClient reads the client configuration from env (and .env when present).
func LoadClient() ClientConfig {
	_ = godotenv.Load()

	return ClientConfig{
		APIURL:   getEnv("TODO_API_URL", "http://127.0.0.1:8080"),
		Token:    os.Getenv("TODO_API_TOKEN"),
		PageSize: getInt("TODO_PAGE_SIZE", 5),
		LogLevel: getEnv("LOG_LEVEL", "warn"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt returns def for unset, malformed or non-positive values, except
// REDIS_DB where 0 is meaningful.
func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || (n == 0 && key != "REDIS_DB") {
		return def
	}
	return n
}
