package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"ESP_APP_NAME":                 os.Getenv("ESP_APP_NAME"),
		"ESP_APP_ENV":                  os.Getenv("ESP_APP_ENV"),
		"ESP_APP_PORT":                 os.Getenv("ESP_APP_PORT"),
		"ESP_DATABASE_HOST":            os.Getenv("ESP_DATABASE_HOST"),
		"ESP_DATABASE_PORT":            os.Getenv("ESP_DATABASE_PORT"),
		"ESP_DATABASE_USER":            os.Getenv("ESP_DATABASE_USER"),
		"ESP_DATABASE_PASSWORD":        os.Getenv("ESP_DATABASE_PASSWORD"),
		"ESP_DATABASE_DBNAME":          os.Getenv("ESP_DATABASE_DBNAME"),
		"ESP_DATABASE_SSLMODE":         os.Getenv("ESP_DATABASE_SSLMODE"),
		"ESP_DATABASE_MAX_OPEN_CONNS":  os.Getenv("ESP_DATABASE_MAX_OPEN_CONNS"),
		"ESP_DATABASE_MAX_IDLE_CONNS":  os.Getenv("ESP_DATABASE_MAX_IDLE_CONNS"),
		"ESP_JWT_SECRET":               os.Getenv("ESP_JWT_SECRET"),
		"ESP_SMS_API_KEY":              os.Getenv("ESP_SMS_API_KEY"),
		"ESP_REMINDER_MONTHLY_RUN_DAY": os.Getenv("ESP_REMINDER_MONTHLY_RUN_DAY"),
		"ESP_REMINDER_BANK_DETAILS":    os.Getenv("ESP_REMINDER_BANK_DETAILS"),
		"ESP_STORAGE_DRIVER":           os.Getenv("ESP_STORAGE_DRIVER"),
		"ESP_STORAGE_BUCKET":           os.Getenv("ESP_STORAGE_BUCKET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "esperanza-internal", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "esperanza", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 1, cfg.Reminder.MonthlyRunDay)
		assert.Equal(t, "local", cfg.Storage.Driver)
		assert.Equal(t, "ESPERANZA", cfg.SMS.SenderName)
	})

	t.Run("loads values from environment variables with ESP prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("ESP_APP_NAME", "test-app")
		os.Setenv("ESP_APP_PORT", "9000")
		os.Setenv("ESP_DATABASE_HOST", "testdb.local")
		os.Setenv("ESP_DATABASE_PORT", "5433")
		os.Setenv("ESP_DATABASE_PASSWORD", "testpass")
		os.Setenv("ESP_REMINDER_MONTHLY_RUN_DAY", "2")
		os.Setenv("ESP_REMINDER_BANK_DETAILS", "Equity Bank Acc 0123456789")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 2, cfg.Reminder.MonthlyRunDay)
		assert.Equal(t, "Equity Bank Acc 0123456789", cfg.Reminder.BankDetails)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("ESP_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("ESP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects monthly run day outside 1..28", func(t *testing.T) {
		clearEnv()
		os.Setenv("ESP_REMINDER_MONTHLY_RUN_DAY", "31")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "monthly_run_day")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("ESP_STORAGE_DRIVER", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver")
	})

	t.Run("s3 driver requires a bucket", func(t *testing.T) {
		clearEnv()
		os.Setenv("ESP_STORAGE_DRIVER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"ESP_APP_ENV":           os.Getenv("ESP_APP_ENV"),
		"ESP_JWT_SECRET":        os.Getenv("ESP_JWT_SECRET"),
		"ESP_DATABASE_PASSWORD": os.Getenv("ESP_DATABASE_PASSWORD"),
		"ESP_DATABASE_SSLMODE":  os.Getenv("ESP_DATABASE_SSLMODE"),
		"ESP_SMS_API_KEY":       os.Getenv("ESP_SMS_API_KEY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("ESP_APP_ENV", "production")
		os.Setenv("ESP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("ESP_DATABASE_PASSWORD", "secure-password")
		os.Setenv("ESP_DATABASE_SSLMODE", "require")
		os.Setenv("ESP_SMS_API_KEY", "sms-key")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("ESP_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("ESP_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("ESP_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("ESP_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires sms.api_key in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("ESP_SMS_API_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sms.api_key is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}
