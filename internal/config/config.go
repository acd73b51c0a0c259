package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultBackendURL = "https://vad-backend.onrender.com/predict"

type Config struct {
	Port           int
	Password       string // empty disables the login gate
	BackendURL     string
	BackendTimeout time.Duration // 0 = wait for the backend indefinitely
	MaxUploadSize  int64         // bytes
	TempDirectory  string
	LogDirectory   string
	HistoryDBPath  string // empty disables history
	MQTTBroker     string // empty disables notifications
	MQTTTopic      string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnvAsInt("PORT", 8501),
		Password:       getEnv("PASSWORD", ""),
		BackendURL:     getEnv("BACKEND_URL", DefaultBackendURL),
		BackendTimeout: time.Duration(getEnvAsInt("BACKEND_TIMEOUT", 0)) * time.Second,
		MaxUploadSize:  getEnvAsInt64("MAX_UPLOAD_MB", 200) << 20,
		TempDirectory:  getEnv("TEMP_DIR", os.TempDir()),
		LogDirectory:   getEnv("LOG_DIR", filepath.Join(".", "logs")),
		HistoryDBPath:  getEnv("HISTORY_DB", ""),
		MQTTBroker:     getEnv("MQTT_BROKER", ""),
		MQTTTopic:      getEnv("MQTT_TOPIC", "dementia/predictions"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
