package config

import (
	"os"
	"strconv"
	"time"
)

// Settings holds process configuration loaded from environment variables.
type Settings struct {
	HTTPAddr          string
	CatalogPath       string
	RabbitURL         string
	LogLevel          string
	SimulationWorkers int
	MaxTrials         int
	MaxPeriods        int
	RequestTimeout    time.Duration
}

// LoadSettings reads settings from the environment with defaults.
func LoadSettings() Settings {
	return Settings{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CatalogPath:       getEnv("CATALOG_PATH", "config/assets.yaml"),
		RabbitURL:         getEnv("RABBIT_URL", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		SimulationWorkers: getEnvInt("SIMULATION_WORKERS", 4),
		MaxTrials:         getEnvInt("MAX_TRIALS", 10000),
		MaxPeriods:        getEnvInt("MAX_PERIODS", 3650),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
