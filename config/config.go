package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values. It is built once at startup and
// threaded into each component; nothing re-reads the environment mid-request.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration (status cache + reminder queue).
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisStatusDB        int    `mapstructure:"REDIS_STATUS_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Booking domain.
	BusinessTimezone string `mapstructure:"BUSINESS_TIMEZONE"`
	ServerBaseURL    string `mapstructure:"SERVER_BASE_URL"`
	OwnerName        string `mapstructure:"OWNER_NAME"`
	OwnerEmail       string `mapstructure:"OWNER_EMAIL"`
	CalendarID       string `mapstructure:"CALENDAR_ID"`

	// Google Calendar credentials.
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	GoogleTokenFile       string `mapstructure:"GOOGLE_TOKEN_FILE"`

	// Outbound mail.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Owner console.
	ConsoleSecret string `mapstructure:"CONSOLE_SECRET"`

	ExternalTimeoutSeconds int `mapstructure:"EXTERNAL_TIMEOUT_SECONDS"`
	MaxRequestsPerMin      int `mapstructure:"MAX_REQUESTS_PER_MIN"`
	ReminderLeadMinutes    int `mapstructure:"REMINDER_LEAD_MINUTES"`
}

// ExternalTimeout is the bound applied to every calendar and mail call.
func (c Config) ExternalTimeout() time.Duration {
	return time.Duration(c.ExternalTimeoutSeconds) * time.Second
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "meetwise")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_STATUS_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("BUSINESS_TIMEZONE", "America/New_York")
	viper.SetDefault("SERVER_BASE_URL", "http://localhost:8080")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("GOOGLE_TOKEN_FILE", "token.json")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EXTERNAL_TIMEOUT_SECONDS", 10)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REMINDER_LEAD_MINUTES", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
