package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the parking API service
type Config struct {
	// HTTP
	Port        string
	CORSOrigins []string

	// Zone storage
	DatabasePath string // SQLite file
	DatabaseURL  string // Postgres; takes precedence when set
	ZonesFile    string // YAML catalog; embedded default when empty

	// Trained model
	UseMLModel   bool
	MLServiceURL string
	MLModelPath  string
	MLDataDir    string
	MLTimeout    time.Duration

	// Datasets
	EventsFile  string
	HistoryFile string

	// Recommendations
	MaxRecommendations int
	MaxDistanceKm      float64

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadEnvFiles loads .env then .env.local (which overrides for local development).
// Missing files are ignored.
func LoadEnvFiles(dir string) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	_ = godotenv.Overload(filepath.Join(dir, ".env.local"))
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	cfg := &Config{
		// HTTP
		Port:        getEnv("PORT", "8081"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"}),

		// Zone storage
		DatabasePath: getEnv("SQLITE_DATABASE", "data/parking.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		ZonesFile:    getEnv("ZONES_FILE", ""),

		// Trained model
		UseMLModel:   getEnvBool("USE_ML_MODEL", true),
		MLServiceURL: getEnv("ML_SERVICE_URL", "http://localhost:8000"),
		MLModelPath:  getEnv("ML_MODEL_PATH", "ml/models/parking_model.pkl"),
		MLDataDir:    getEnv("ML_DATA_DIR", "ml/data/processed"),
		MLTimeout:    time.Duration(getEnvInt("ML_TIMEOUT_SECONDS", 5)) * time.Second,

		// Recommendations
		MaxRecommendations: getEnvInt("MAX_RECOMMENDATIONS", 3),
		MaxDistanceKm:      getEnvFloat("MAX_DISTANCE_KM", 3.0),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	// Derived paths
	cfg.EventsFile = getEnv("EVENTS_FILE", filepath.Join(cfg.MLDataDir, "events.json"))
	cfg.HistoryFile = getEnv("HISTORY_FILE", filepath.Join(cfg.MLDataDir, "parking_data.json"))

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
