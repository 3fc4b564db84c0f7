package config

import (
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

// Enabled reports whether enough credentials are present to talk to the bucket.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.SecretAccessKey != "" && r.BucketName != ""
}

type Config struct {
	DBDriver    string
	DB_URL      string
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string
	MaxAPICalls int
	CorsConfig  cors.Options
	R2          R2Config
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Debug().Str("file", envFile).Msg("no env file found, using process environment")
	}

	env := getEnv("ENV", "development")
	logFormat := "json"
	if env == "development" {
		logFormat = "console"
	}

	return Config{
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DB_URL:      getEnv("DB_URL", "work.db"),
		Port:        getEnv("PORT", "3000"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", logFormat),
		MaxAPICalls: getEnvInt("MAX_API_CALLS", 1000),
		CorsConfig:  CorsConfig(),
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", value).Int("fallback", fallback).Msg("invalid integer in environment")
		return fallback
	}
	return n
}

// CorsConfig allows any origin: clients are API-key authenticated, not cookie based.
func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Api-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}
}
