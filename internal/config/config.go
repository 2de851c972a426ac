/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the marketplace-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort           string `mapstructure:"SERVER_PORT"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	EventExchange        string `mapstructure:"EVENT_EXCHANGE"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	SiteBaseURL string `mapstructure:"SITE_BASE_URL"`

	AWSRegion string `mapstructure:"AWS_REGION"`
	EmailFrom string `mapstructure:"EMAIL_FROM"`

	PaymentSuccessRate float64 `mapstructure:"PAYMENT_SUCCESS_RATE"`

	SubmissionRateLimit              int `mapstructure:"SUBMISSION_RATE_LIMIT"`
	SubmissionRateLimitWindowMinutes int `mapstructure:"SUBMISSION_RATE_LIMIT_WINDOW_MINUTES"`
	PaymentRateLimit                 int `mapstructure:"PAYMENT_RATE_LIMIT"`
	PaymentRateLimitWindowMinutes    int `mapstructure:"PAYMENT_RATE_LIMIT_WINDOW_MINUTES"`
	NewsletterRateLimit              int `mapstructure:"NEWSLETTER_RATE_LIMIT"`
	NewsletterRateLimitWindowMinutes int `mapstructure:"NEWSLETTER_RATE_LIMIT_WINDOW_MINUTES"`

	StalePaymentRetentionHours int `mapstructure:"STALE_PAYMENT_RETENTION_HOURS"`

	PaymentPurgeSchedule      string `mapstructure:"PAYMENT_PURGE_SCHEDULE"`
	NotificationPurgeSchedule string `mapstructure:"NOTIFICATION_PURGE_SCHEDULE"`
	RateLimitPruneSchedule    string `mapstructure:"RATE_LIMIT_PRUNE_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("EVENT_EXCHANGE", "marketplace.events")
	viper.SetDefault("SITE_BASE_URL", "https://choiceproperties.com")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "marketplace:rate_limit")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("EMAIL_FROM", "noreply@choiceproperties.com")
	viper.SetDefault("PAYMENT_SUCCESS_RATE", 0.9)
	viper.SetDefault("SUBMISSION_RATE_LIMIT", 3)
	viper.SetDefault("SUBMISSION_RATE_LIMIT_WINDOW_MINUTES", 60)
	viper.SetDefault("PAYMENT_RATE_LIMIT", 3)
	viper.SetDefault("PAYMENT_RATE_LIMIT_WINDOW_MINUTES", 10)
	viper.SetDefault("NEWSLETTER_RATE_LIMIT", 2)
	viper.SetDefault("NEWSLETTER_RATE_LIMIT_WINDOW_MINUTES", 60)
	viper.SetDefault("STALE_PAYMENT_RETENTION_HOURS", 24)
	viper.SetDefault("PAYMENT_PURGE_SCHEDULE", "0 * * * *")
	viper.SetDefault("NOTIFICATION_PURGE_SCHEDULE", "30 3 * * *")
	viper.SetDefault("RATE_LIMIT_PRUNE_SCHEDULE", "*/15 * * * *")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("EVENT_EXCHANGE")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("SITE_BASE_URL")
	_ = viper.BindEnv("AWS_REGION")
	_ = viper.BindEnv("EMAIL_FROM")
	_ = viper.BindEnv("PAYMENT_SUCCESS_RATE")
	_ = viper.BindEnv("SUBMISSION_RATE_LIMIT")
	_ = viper.BindEnv("SUBMISSION_RATE_LIMIT_WINDOW_MINUTES")
	_ = viper.BindEnv("PAYMENT_RATE_LIMIT")
	_ = viper.BindEnv("PAYMENT_RATE_LIMIT_WINDOW_MINUTES")
	_ = viper.BindEnv("NEWSLETTER_RATE_LIMIT")
	_ = viper.BindEnv("NEWSLETTER_RATE_LIMIT_WINDOW_MINUTES")
	_ = viper.BindEnv("STALE_PAYMENT_RETENTION_HOURS")
	_ = viper.BindEnv("PAYMENT_PURGE_SCHEDULE")
	_ = viper.BindEnv("NOTIFICATION_PURGE_SCHEDULE")
	_ = viper.BindEnv("RATE_LIMIT_PRUNE_SCHEDULE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// Platform runtimes inject the listen port as PORT.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}

	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "marketplace:rate_limit"
	}
	config.SiteBaseURL = strings.TrimSuffix(strings.TrimSpace(config.SiteBaseURL), "/")

	if config.PaymentSuccessRate < 0 || config.PaymentSuccessRate > 1 {
		log.Printf("level=warn component=config msg=\"payment success rate out of range; using default\" rate=%f", config.PaymentSuccessRate)
		config.PaymentSuccessRate = 0.9
	}
	if config.SubmissionRateLimit <= 0 {
		config.SubmissionRateLimit = 3
	}
	if config.SubmissionRateLimitWindowMinutes <= 0 {
		config.SubmissionRateLimitWindowMinutes = 60
	}
	if config.PaymentRateLimit <= 0 {
		config.PaymentRateLimit = 3
	}
	if config.PaymentRateLimitWindowMinutes <= 0 {
		config.PaymentRateLimitWindowMinutes = 10
	}
	if config.NewsletterRateLimit <= 0 {
		config.NewsletterRateLimit = 2
	}
	if config.NewsletterRateLimitWindowMinutes <= 0 {
		config.NewsletterRateLimitWindowMinutes = 60
	}
	if config.StalePaymentRetentionHours <= 0 {
		config.StalePaymentRetentionHours = 24
	}

	return
}
