package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the environment-driven settings of the service.
type Config struct {
	Port          string
	BaseURL       string
	MongoURI      string
	DBName        string
	JWTSecret     string
	TokenExpiry   time.Duration
	RedisAddr     string
	RedisPassword string
}

// LoadConfig reads configuration from .env and the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	expiry := 24 * time.Hour
	if raw := os.Getenv("TOKEN_EXPIRY"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			logrus.WithError(err).Warnf("Invalid TOKEN_EXPIRY %q, using default", raw)
		} else {
			expiry = parsed
		}
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "skillswap"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenExpiry:   expiry,
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
