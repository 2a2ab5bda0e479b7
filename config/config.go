package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	TrustProxyHeaders bool   `mapstructure:"TRUST_PROXY_HEADERS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Upload limits.
	MaxUploadBytes int64 `mapstructure:"MAX_UPLOAD_BYTES"`

	// Ingestion tunables.
	LunchBreakStart        string `mapstructure:"LUNCH_BREAK_START"`
	LunchBreakEnd          string `mapstructure:"LUNCH_BREAK_END"`
	MaxDailyFacultyMinutes int    `mapstructure:"MAX_DAILY_FACULTY_MINUTES"`
	DryRunPreviewSize      int    `mapstructure:"DRY_RUN_PREVIEW_SIZE"`
	DefaultSectionStrength int    `mapstructure:"DEFAULT_SECTION_STRENGTH"`
	DefaultDepartment      string `mapstructure:"DEFAULT_DEPARTMENT"`
	FacultyEmailDomain     string `mapstructure:"FACULTY_EMAIL_DOMAIN"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("TRUST_PROXY_HEADERS", true)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "timetable")
	viper.SetDefault("MAX_UPLOAD_BYTES", 5*1024*1024)
	viper.SetDefault("LUNCH_BREAK_START", "12:30")
	viper.SetDefault("LUNCH_BREAK_END", "13:30")
	viper.SetDefault("MAX_DAILY_FACULTY_MINUTES", 480)
	viper.SetDefault("DRY_RUN_PREVIEW_SIZE", 10)
	viper.SetDefault("DEFAULT_SECTION_STRENGTH", 60)
	viper.SetDefault("DEFAULT_DEPARTMENT", "Computer Science")
	viper.SetDefault("FACULTY_EMAIL_DOMAIN", "college.edu")

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
