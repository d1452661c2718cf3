package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every process-wide setting. It is built once at startup and
// injected into the token manager and database service; handler logic never
// reads the environment directly.
type Config struct {
	Port string

	DBConnString string

	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBConnString:    os.Getenv("DB_CONNECTION_STRING"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       getEnv("JWT_ISSUER", "BudgetKeeper"),
		JWTAudience:     getEnv("JWT_AUDIENCE", "BudgetKeeperAPI"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 10*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBConnString == "" {
		return errors.New("missing DB_CONNECTION_STRING in environment variables")
	}
	if c.JWTSecret == "" {
		return errors.New("no JWT_SECRET provided")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		return errors.New("REFRESH_TOKEN_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default %v", key, value, fallback)
		return fallback
	}
	return parsed
}
