package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
}

type PostgresConfig struct {
	URL             string
	MaxConns        int
	ConnMaxLifetime int // seconds
}

// LoadEnv reads configuration from environment variables, falling back to
// development defaults. The binaries call godotenv.Load before this.
func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:         getEnv("APP_ENV", "dev"),
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		},
		Postgres: PostgresConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt("POSTGRES_MAX_CONNS", 10),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
