package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"suretyledger-service/internal/domain/entity"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI            string
	MongoDB             string
	MongoUser           string
	MongoPassword       string
	MongoConnectTimeout time.Duration

	// PostgreSQL
	PostgresDSN string

	// Ledger
	OwnerAddress      string
	FounderAddress    string
	FounderName       string
	MinimumStake      int64
	InsuranceCap      int64
	AuthorizedCallers []string

	// Metrics
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:            getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "suretyledger"),
		MongoUser:           getEnv("MONGO_USER", ""),
		MongoPassword:       getEnv("MONGO_PASSWORD", ""),
		MongoConnectTimeout: time.Duration(getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres dbname=suretyledger port=5432"),

		OwnerAddress:      getEnv("OWNER_ADDRESS", "owner"),
		FounderAddress:    getEnv("FOUNDER_ADDRESS", ""),
		FounderName:       getEnv("FOUNDER_NAME", ""),
		MinimumStake:      getEnvAsAmount("MINIMUM_STAKE", 10*entity.UnitScale),
		InsuranceCap:      getEnvAsAmount("INSURANCE_CAP", 1*entity.UnitScale),
		AuthorizedCallers: getEnvAsList("AUTHORIZED_CALLERS"),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "suretyledger"),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsAmount(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
