package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("SMTP_SERVER", "smtp.example.com")
		t.Setenv("SMTP_PORT", "2525")
		t.Setenv("SMTP_EMAIL", "shop@example.com")
		t.Setenv("SMTP_PASSWORD", "smtppass")
		t.Setenv("ADMIN_EMAIL", "admin@example.com")
		t.Setenv("JWT_SECRET", "secret")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
		assert.Equal(t, "2525", cfg.SMTPPort)
		assert.Equal(t, "shop@example.com", cfg.SMTPEmail)
		assert.Equal(t, "admin@example.com", cfg.AdminEmail)
		assert.Equal(t, "secret", cfg.JWTSecret)
	})

	t.Run("Defaults applied when optional vars unset", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "u")
		t.Setenv("DB_PASSWORD", "p")
		t.Setenv("DB_NAME", "d")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("SMTP_SERVER", "")
		t.Setenv("SMTP_PORT", "")
		t.Setenv("MAIL_TIMEOUT", "")
		t.Setenv("MAIL_MAX_RETRIES", "")
		t.Setenv("RETRY_BASE_DELAY", "")
		t.Setenv("SENDING_LEASE", "")

		cfg := LoadConfig()

		assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
		assert.Equal(t, "587", cfg.SMTPPort)
		assert.Equal(t, 15*time.Second, cfg.MailTimeout)
		assert.Equal(t, 5, cfg.MailMaxRetries)
		assert.Equal(t, 5*time.Minute, cfg.RetryBaseDelay)
		assert.Equal(t, 15*time.Minute, cfg.SendingLease)
	})

	t.Run("Invalid duration falls back to default", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "u")
		t.Setenv("DB_PASSWORD", "p")
		t.Setenv("DB_NAME", "d")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("RETRY_BASE_DELAY", "not-a-duration")
		t.Setenv("MAIL_MAX_RETRIES", "zero")

		cfg := LoadConfig()

		assert.Equal(t, 5*time.Minute, cfg.RetryBaseDelay)
		assert.Equal(t, 5, cfg.MailMaxRetries)
	})
}
