package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"wardrobe-matcher/payload"
)

const (
	ProviderGemini = "gemini"
	ProviderStub   = "stub"
)

// Config holds all configuration for the wardrobe matcher service
type Config struct {
	// Server configuration
	Port           string
	AllowedOrigins string

	// Provider configuration
	LLMProvider     string
	GeminiAPIKey    string
	GeminiModel     string
	ProviderTimeout time.Duration

	// Upload configuration
	UploadDir      string
	MaxUploadFiles int
	MaxUploadSize  int64

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// Filename to image id policy
	IDPolicy payload.IDPolicy

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// Server defaults
		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		// Provider defaults
		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ProviderTimeout: getDurationEnv("PROVIDER_TIMEOUT", 60*time.Second),

		// Upload defaults (10 files, 10 MB each)
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadFiles: getIntEnv("MAX_UPLOAD_FILES", payload.MaxImages),
		MaxUploadSize:  int64(getIntEnv("MAX_UPLOAD_SIZE_MB", 10)) << 20,

		// Rate limit defaults (100 requests per minute per IP)
		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 0),

		IDPolicy: payload.IDPolicy(strings.ToLower(getEnv("ID_POLICY", string(payload.PolicyCategory)))),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []error

	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY environment variable is required"))
		}
	case ProviderStub:
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderStub, c.LLMProvider))
	}

	if _, err := payload.ParsePolicy(string(c.IDPolicy)); err != nil {
		errs = append(errs, fmt.Errorf("ID_POLICY: %w", err))
	}
	if c.MaxUploadFiles < 0 || c.MaxUploadFiles > payload.MaxImages {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_FILES must be between 0 and %d", payload.MaxImages))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE_MB must be positive"))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be positive"))
	}
	if c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must not be negative"))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid PORT configuration: %w", err))
	}

	return errors.Join(errs...)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
