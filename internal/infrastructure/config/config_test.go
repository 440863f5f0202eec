package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "azalscore-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "azalscore", cfg.Database.DBName)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(20<<20), cfg.HTTP.MaxUploadSize)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "fra+eng", cfg.OCR.Lang)
	assert.Equal(t, "sandbox", cfg.Bank.Provider)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AZAL_APP_PORT", "9090")
	t.Setenv("AZAL_DATABASE_HOST", "db.internal")
	t.Setenv("AZAL_OCR_ENGINE", "stub")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "stub", cfg.OCR.Engine)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 100
		cfg.Database.MaxOpenConns = 10
		assert.ErrorContains(t, cfg.validate(), "max_idle_conns")
	})

	t.Run("sampling ratio out of range", func(t *testing.T) {
		cfg := base()
		cfg.Telemetry.SamplingRatio = 1.5
		assert.ErrorContains(t, cfg.validate(), "sampling_ratio")
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		assert.ErrorContains(t, cfg.validate(), "jwt.secret")

		cfg.JWT.Secret = "short"
		assert.ErrorContains(t, cfg.validate(), "at least 32 characters")
	})

	t.Run("production rejects insecure database settings", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		assert.ErrorContains(t, cfg.validate(), "database.password")

		cfg.Database.Password = "secret"
		assert.ErrorContains(t, cfg.validate(), "sslmode")
	})

	t.Run("production rejects local storage and wildcard CORS", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Vault.SealingKey = "aa"
		assert.ErrorContains(t, cfg.validate(), "storage.driver")

		cfg.Storage.Driver = "s3"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.ErrorContains(t, cfg.validate(), "cors_allow_origins")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "azalscore",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss/word")
}
