package configs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RestConfig struct {
	Port           string
	AllowedOrigins []string
}

type ContentfulConfig struct {
	BaseURL     string
	SpaceID     string
	Environment string
	AccessToken string
	Timeout     time.Duration
}

type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend     string
	MaxEntries  int
	TaxonomyTTL time.Duration
	PropertyTTL time.Duration
}

type RedisConfig struct {
	URL string
}

type DBconfig struct {
	URL string
}

type RabbitMQConfig struct {
	Enabled    bool
	URL        string
	RetryTTL   time.Duration
	MaxRetries int
	Prefetch   int
}

type MailConfig struct {
	// Provider is "smtp" or "resend".
	Provider     string
	From         string
	AdminAddress string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	ResendAPIKey string
}

type UnlockConfig struct {
	Secret string
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

type AppConfig struct {
	AppName      string
	Production   bool
	Rest         RestConfig
	Contentful   ContentfulConfig
	Cache        CacheConfig
	Redis        RedisConfig
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	Mail         MailConfig
	Unlock       UnlockConfig
	RateLimit    RateLimitConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig reads the environment, optionally seeded from a .env file.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listing-service")
	cfg.Production = getEnvAsString("APP_ENV", "development") == "production"

	cfg.Rest.Port = getEnvAsString("REST_PORT", "8080")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	cfg.Contentful.BaseURL = getEnvAsString("CONTENTFUL_BASE_URL", "https://cdn.contentful.com")
	cfg.Contentful.SpaceID = os.Getenv("CONTENTFUL_SPACE_ID")
	cfg.Contentful.Environment = getEnvAsString("CONTENTFUL_ENVIRONMENT", "master")
	cfg.Contentful.AccessToken = os.Getenv("CONTENTFUL_ACCESS_TOKEN")
	cfg.Contentful.Timeout = getEnvAsDuration("CONTENTFUL_TIMEOUT", 10*time.Second)

	cfg.Cache.Backend = strings.ToLower(getEnvAsString("CACHE_BACKEND", "memory"))
	cfg.Cache.MaxEntries = getEnvAsInt("CACHE_MAX_ENTRIES", 500)
	cfg.Cache.TaxonomyTTL = getEnvAsDuration("CACHE_TAXONOMY_TTL", 10*time.Minute)
	cfg.Cache.PropertyTTL = getEnvAsDuration("CACHE_PROPERTY_TTL", time.Minute)

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Database.URL = os.Getenv("DATABASE_URL")

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.RabbitMQ.RetryTTL = getEnvAsDuration("RABBITMQ_RETRY_TTL", 30*time.Second)
	cfg.RabbitMQ.MaxRetries = getEnvAsInt("RABBITMQ_MAX_RETRIES", 3)
	cfg.RabbitMQ.Prefetch = getEnvAsInt("RABBITMQ_PREFETCH", 4)

	cfg.Mail.Provider = strings.ToLower(getEnvAsString("MAIL_PROVIDER", "smtp"))
	cfg.Mail.From = os.Getenv("MAIL_FROM")
	cfg.Mail.AdminAddress = os.Getenv("ADMIN_EMAIL")
	cfg.Mail.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Mail.SMTPPort = getEnvAsInt("SMTP_PORT", 587)
	cfg.Mail.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.Mail.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Mail.ResendAPIKey = os.Getenv("RESEND_API_KEY")

	cfg.Unlock.Secret = os.Getenv("UNLOCK_COOKIE_SECRET")

	cfg.RateLimit.Limit = getEnvAsInt("INQUIRY_RATE_LIMIT", 5)
	cfg.RateLimit.Window = getEnvAsDuration("INQUIRY_RATE_WINDOW", time.Minute)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c *AppConfig) Validate() error {
	var errs []error
	require := func(value, name string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s environment variable is required", name))
		}
	}

	require(c.Contentful.SpaceID, "CONTENTFUL_SPACE_ID")
	require(c.Contentful.AccessToken, "CONTENTFUL_ACCESS_TOKEN")
	require(c.Database.URL, "DATABASE_URL")
	require(c.Mail.From, "MAIL_FROM")
	require(c.Mail.AdminAddress, "ADMIN_EMAIL")
	require(c.Unlock.Secret, "UNLOCK_COOKIE_SECRET")

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		require(c.Redis.URL, "REDIS_URL")
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend))
	}

	switch c.Mail.Provider {
	case "smtp":
		require(c.Mail.SMTPHost, "SMTP_HOST")
	case "resend":
		require(c.Mail.ResendAPIKey, "RESEND_API_KEY")
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider))
	}

	if c.RabbitMQ.Enabled {
		require(c.RabbitMQ.URL, "RABBITMQ_URL")
		if c.RabbitMQ.MaxRetries <= 0 || c.RabbitMQ.RetryTTL <= 0 {
			errs = append(errs, errors.New("RABBITMQ_MAX_RETRIES and RABBITMQ_RETRY_TTL must be positive"))
		}
	}
	return errors.Join(errs...)
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt logs and falls back to the default when the value is not an int.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration accepts Go durations like "90s" or "10m".
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList splits a comma separated value, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
