package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                     string
	Origin                   string
	Environment              string
	Database                 DatabaseConfig
	AI                       AIConfig
	CriticalThresholdPercent float64
	MaxUploadMB              int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// AIConfig holds settings for the external analysis collaborator.
type AIConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "medilab"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	aiTimeout, err := strconv.Atoi(getEnv("AI_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT_SECONDS: %w", err)
	}

	criticalPct, err := strconv.ParseFloat(getEnv("CRITICAL_THRESHOLD_PERCENT", "25"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CRITICAL_THRESHOLD_PERCENT: %w", err)
	}

	maxUploadMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:4200"),
		Environment: getEnv("APP_ENV", "development"),
		Database:    dbConfig,
		AI: AIConfig{
			BaseURL:        getEnv("AI_BASE_URL", ""),
			APIKey:         getEnv("AI_API_KEY", ""),
			TimeoutSeconds: aiTimeout,
		},
		CriticalThresholdPercent: criticalPct,
		MaxUploadMB:              maxUploadMB,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
