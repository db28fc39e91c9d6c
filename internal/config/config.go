package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	SMTPHost     string
	SMTPPort     string
	SMTPEmail    string
	SMTPPassword string
	AdminEmail   string
	SiteURL      string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	MailTimeout    time.Duration
	MailMaxRetries int
	RetryBaseDelay time.Duration
	SendingLease   time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		SMTPHost:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPEmail:    os.Getenv("SMTP_EMAIL"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		SiteURL:      getEnv("SITE_URL", "http://127.0.0.1:8080"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		MailTimeout:    getEnvDuration("MAIL_TIMEOUT", 15*time.Second),
		MailMaxRetries: getEnvInt("MAIL_MAX_RETRIES", 5),
		RetryBaseDelay: getEnvDuration("RETRY_BASE_DELAY", 5*time.Minute),
		SendingLease:   getEnvDuration("SENDING_LEASE", 15*time.Minute),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
