package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Storage struct {
		Backend  string
		Dir      string
		Basename string
		MaxTries int
		NumKeep  int
	}

	Save struct {
		Interval time.Duration
		SeedData bool
	}

	Minio struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}

	Log struct {
		Level string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.Storage.Backend = getEnv("STORAGE_BACKEND", "fs")
	config.Storage.Dir = getEnv("DATA_DIR", "data")
	config.Storage.Basename = getEnv("DATA_BASENAME", "data.json")
	config.Storage.MaxTries = getEnvAsInt("MAX_LOAD_TRIES", 3)
	config.Storage.NumKeep = getEnvAsInt("NUM_KEEP_BACKUPS", 5)

	config.Save.Interval = time.Duration(getEnvAsInt("SAVE_INTERVAL_SECONDS", 10)) * time.Second
	config.Save.SeedData = getEnvAsBool("SEED_EXAMPLE_DATA", false)

	config.Minio.Endpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	config.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.Minio.Bucket = getEnv("MINIO_BUCKET", "muncher")
	config.Minio.UseSSL = getEnvAsBool("MINIO_USE_SSL", false)

	config.Log.Level = getEnv("LOG_LEVEL", "info")

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
