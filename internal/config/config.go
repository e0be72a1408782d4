package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr           string
	JWTSecret      string
	AdminSecret    string
	TokenTTL       time.Duration
	StoreDriver    string
	StoreTimeout   time.Duration
	MongoURI       string
	MongoDatabase  string
	DatabaseURL    string
	AllowedOrigins []string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	addr := os.Getenv("ADDR")
	if addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		addr = ":" + port
	}

	return Config{
		Addr:           addr,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminSecret:    os.Getenv("ADMIN_SECRET"),
		TokenTTL:       durationEnv("TOKEN_TTL", 24*time.Hour),
		StoreDriver:    stringEnv("STORE_DRIVER", DriverMongo),
		StoreTimeout:   durationEnv("STORE_TIMEOUT", 10*time.Second),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDatabase:  stringEnv("MONGO_DATABASE", "show"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: listEnv("CORS_ORIGINS", []string{"https://test-depoly-app.netlify.app"}),
	}
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is not set")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}
	case DriverMemory:
	default:
		return errors.New("STORE_DRIVER must be one of mongo, postgres, memory")
	}
	return nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func listEnv(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
