package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("IS_PROD", "false")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.AppPort)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.UsesDevSecret())
	assert.Equal(t, "admin@admin.com", cfg.Admin.Email)
}

func TestLoadConfig_RequiresSecretInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("IS_PROD", "true")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.UsesDevSecret())
	assert.NotContains(t, cfg.String(), "prod-secret")
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("IS_PROD", "false")
	t.Setenv("DB_DRIVER", "postgres")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestLoadConfig_CustomTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("IS_PROD", "false")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Contains(t, cfg.DB.MySQLDSN(), "parseTime=true")
}
