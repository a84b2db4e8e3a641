package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/kwiens/seeds/internal/policy"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int    `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret string `json:"jwt_secret"`

	// AdminEmails is the static half of the admin allow-list, normalized
	AdminEmails []string `json:"admin_emails"`

	// Image generation side path
	Image ImageConfig `json:"image"`
}

// ImageConfig configures the seed image generator and its blob store
type ImageConfig struct {
	APIKey          string `json:"api_key"`
	APIURL          string `json:"api_url"`
	Model           string `json:"model"`
	S3Endpoint      string `json:"s3_endpoint"`
	S3Region        string `json:"s3_region"`
	S3Bucket        string `json:"s3_bucket"`
	S3AccessKeyID   string `json:"s3_access_key_id"`
	S3SecretKey     string `json:"s3_secret_access_key"`
	S3UsePathStyle  bool   `json:"s3_use_path_style"`
	S3PublicBaseURL string `json:"s3_public_base_url"`
}

// Enabled reports whether both the generator and the blob store are configured
func (c ImageConfig) Enabled() bool {
	return c.APIKey != "" && c.S3Bucket != ""
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], AdminEmails: %d, ImageEnabled: %t, S3Endpoint: %s}",
		c.Port, c.Host, c.Environment, c.DBDriver, c.DBPath, c.DBHost, c.DBName, c.DBUser, c.LogLevel, len(c.AdminEmails), c.Image.Enabled(), maskURL(c.Image.S3Endpoint))
}

// maskURL masks credentials embedded in a URL
func maskURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any environment variable is present but invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	driver := GetEnvWithDefault("DB_DRIVER", "sqlite")
	switch driver {
	case "sqlite", "postgres", "postgresql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, sqlite)", driver)
	}

	environment := GetEnvWithDefault("APP_ENV", "development")
	if environment == "production" && os.Getenv("JWT_SECRET") == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set when APP_ENV=production")
	}

	endpoint := GetEnvWithDefault("S3_ENDPOINT", "")
	if endpoint != "" {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return nil, fmt.Errorf("invalid S3_ENDPOINT format: %w", err)
		}
	}

	config := &Config{
		Port:        port,
		Host:        GetEnvWithDefault("APP_HOST", "localhost"),
		Environment: environment,
		DBDriver:    driver,
		DBPath:      GetEnvWithDefault("DB_PATH", "seeds.sqlite"),
		DBHost:      GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:      GetEnvWithDefault("DB_PORT", "5432"),
		DBName:      GetEnvWithDefault("DB_NAME", "seeds"),
		DBUser:      GetEnvWithDefault("DB_USER", "seeds"),
		DBPassword:  GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:   GetEnvWithDefault("DB_SSLMODE", "disable"),
		LogLevel:    GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:   GetEnvWithDefault("JWT_SECRET", "secret"),
		AdminEmails: policy.ParseAdminEmails(os.Getenv("ADMIN_EMAILS")),
		Image: ImageConfig{
			APIKey:          os.Getenv("IMAGE_API_KEY"),
			APIURL:          os.Getenv("IMAGE_API_URL"),
			Model:           GetEnvWithDefault("IMAGE_MODEL", "gemini-2.5-flash-image"),
			S3Endpoint:      endpoint,
			S3Region:        GetEnvWithDefault("S3_REGION", "us-east-1"),
			S3Bucket:        os.Getenv("S3_BUCKET"),
			S3AccessKeyID:   os.Getenv("S3_ACCESS_KEY_ID"),
			S3SecretKey:     os.Getenv("S3_SECRET_ACCESS_KEY"),
			S3UsePathStyle:  GetEnvAsType("S3_USE_PATH_STYLE", false),
			S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
