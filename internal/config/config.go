package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port              string
	Env               string
	LogLevel          string
	OfficeTimezone    string
	BookingWindowDays int

	// Chat assistant. ChatProvider selects exactly one backend: gemini or bedrock.
	ChatProvider    string
	GeminiAPIKey    string
	GeminiModelID   string
	ChatTemperature float32
	ChatTopP        float32
	ChatTimeout     time.Duration
	BedrockModelID  string

	// AWS (Bedrock chat provider, booking events queue)
	AWSRegion             string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	AWSEndpointOverride   string
	BookingEventsQueueURL string

	// Storage
	DatabaseURL         string
	TrackingDatabaseURL string
	RedisAddr           string
	RedisPassword       string
	RedisTLS            bool

	// HTTP edge
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		OfficeTimezone:    getEnv("OFFICE_TIMEZONE", "Asia/Ho_Chi_Minh"),
		BookingWindowDays: getEnvAsInt("BOOKING_WINDOW_DAYS", 14),

		ChatProvider:    strings.ToLower(strings.TrimSpace(getEnv("CHAT_PROVIDER", ProviderGemini))),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiModelID:   getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		ChatTemperature: getEnvAsFloat32("CHAT_TEMPERATURE", 0.1),
		ChatTopP:        getEnvAsFloat32("CHAT_TOP_P", 0.8),
		ChatTimeout:     getEnvAsDuration("CHAT_TIMEOUT", 30*time.Second),
		BedrockModelID:  getEnv("BEDROCK_MODEL_ID", ""),

		AWSRegion:             getEnv("AWS_REGION", "ap-southeast-1"),
		AWSAccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride:   getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		BookingEventsQueueURL: getEnv("BOOKING_EVENTS_QUEUE_URL", ""),

		DatabaseURL:         getEnv("DATABASE_URL", ""),
		TrackingDatabaseURL: getEnv("TRACKING_DATABASE_URL", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisTLS:            getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat64("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// Chat providers accepted by CHAT_PROVIDER.
const (
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
)

// UsesBedrock reports whether chat is served by Bedrock.
func (c *Config) UsesBedrock() bool {
	return c.ChatProvider == ProviderBedrock
}

// UsesAWS reports whether any AWS-backed component is configured.
func (c *Config) UsesAWS() bool {
	return c.UsesBedrock() || strings.TrimSpace(c.BookingEventsQueueURL) != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	return float32(getEnvAsFloat64(key, float64(defaultValue)))
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
