package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gocompare/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Analysis  AnalysisConfig
	Synthetic SyntheticConfig
	Companion CompanionConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	MaxUploadMB int
}

// AnalysisConfig holds the statistical pipeline settings
type AnalysisConfig struct {
	// NormalityThreshold is the non-null count from which Kolmogorov-Smirnov replaces Shapiro-Wilk.
	NormalityThreshold int
}

// SyntheticConfig holds the demo dataset settings
type SyntheticConfig struct {
	Seed int64
	Rows int
}

// CompanionConfig holds the companion page settings
type CompanionConfig struct {
	URL string
}

// DefaultCompanionURL is the external application linked from the companion page.
const DefaultCompanionURL = "https://yynsd.shinyapps.io/Xiantu/"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Analysis:  *loadAnalysisConfig(),
		Synthetic: *loadSyntheticConfig(),
		Companion: *loadCompanionConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080", GinMode: "debug", MaxUploadMB: 32},
		Analysis:  AnalysisConfig{NormalityThreshold: 5000},
		Synthetic: SyntheticConfig{Seed: 42, Rows: 100},
		Companion: CompanionConfig{URL: DefaultCompanionURL},
		LogLevel:  "INFO",
	}
}

// MaxUploadBytes returns the multipart memory limit.
func (c ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 32),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		NormalityThreshold: getEnvIntOrDefault("NORMALITY_THRESHOLD", 5000),
	}
}

func loadSyntheticConfig() *SyntheticConfig {
	return &SyntheticConfig{
		Seed: getEnvInt64OrDefault("SYNTHETIC_SEED", 42),
		Rows: getEnvIntOrDefault("SYNTHETIC_ROWS", 100),
	}
}

func loadCompanionConfig() *CompanionConfig {
	return &CompanionConfig{
		URL: getEnvOrDefault("COMPANION_URL", DefaultCompanionURL),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode))
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Analysis.NormalityThreshold < 3 {
		return errors.ConfigInvalid("NORMALITY_THRESHOLD must be at least 3")
	}
	if config.Synthetic.Rows < 1 {
		return errors.ConfigInvalid("SYNTHETIC_ROWS must be positive")
	}
	if u, err := url.Parse(config.Companion.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigInvalid("COMPANION_URL must be an absolute URL")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
