package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port     string
	LogLevel string

	// Data settings
	SMSFilePath    string
	ExportJSONPath string // optional one-way debug dump, empty disables it

	// Security settings
	JWTSecret         string
	AccessTokenExpiry time.Duration
	AuthUsers         map[string]string // username -> password or bcrypt hash

	// Rate limiting
	RateLimitInterval time.Duration
	RateLimitBurst    int
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// defaultAuthUsers seeds the credential table when AUTH_USERS is unset.
// Dev convenience only; set AUTH_USERS with bcrypt hashes in production.
const defaultAuthUsers = "admin:password123,student:momo2024,testuser:test123"

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	jwtSecret := getEnv("JWT_SECRET", "momoledger-dev-secret-do-not-use-in-production")
	if jwtSecret == "momoledger-dev-secret-do-not-use-in-production" {
		log.Println("WARNING: Using default JWT_SECRET. Set this in production.")
	}

	Cfg = &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SMSFilePath:    getEnv("SMS_FILE_PATH", "data/modified_sms_v2.xml"),
		ExportJSONPath: getEnv("EXPORT_JSON_PATH", ""),

		JWTSecret:         jwtSecret,
		AccessTokenExpiry: getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 60*time.Minute),
		AuthUsers:         getAuthUsers("AUTH_USERS"),

		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 100*time.Millisecond),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 30),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, SMSFilePath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.SMSFilePath)
	log.Printf("Auth users loaded: %d", len(Cfg.AuthUsers))
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getAuthUsers parses the comma-separated user:password list. Passwords
// may be plaintext (hashed at startup) or pre-computed bcrypt hashes.
func getAuthUsers(key string) map[string]string {
	usersStr := getEnv(key, defaultAuthUsers)
	users := make(map[string]string)
	for _, pair := range strings.Split(usersStr, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, secret, ok := strings.Cut(pair, ":")
		if !ok || name == "" || secret == "" {
			log.Printf("Skipping malformed AUTH_USERS entry %q", pair)
			continue
		}
		users[strings.TrimSpace(name)] = secret
	}
	return users
}
