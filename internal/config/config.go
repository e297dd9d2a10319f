package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every environment-provided setting read once at startup.
// It is injected into the token service and upload backends rather than
// read from process globals, so tests can run with distinct secrets.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Auth   AuthConfig
	Upload UploadConfig
	PayPal PayPalConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type MongoConfig struct {
	URL      string
	Database string
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type UploadConfig struct {
	// Dir is the local-disk uploads root; references returned by the local
	// backend are server-relative paths under /uploads.
	Dir string

	// S3 settings. Credentials left empty or set to the "dummy" placeholder
	// defer to the ambient credential chain (e.g. an execution role).
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type PayPalConfig struct {
	ClientID string
}

// Load reads configuration from the environment, honouring a local .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Mongo: MongoConfig{
			URL:      getEnv("MONGODB_URL", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "storefront"),
		},
		Auth: AuthConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			TokenTTL: getEnvDuration("JWT_TTL", 48*time.Hour),
		},
		Upload: UploadConfig{
			Dir:             getEnv("UPLOADS_DIR", "uploads"),
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_BUCKET_NAME", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		PayPal: PayPalConfig{
			ClientID: getEnv("PAYPAL_CLIENT_ID", "sb"),
		},
	}

	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
