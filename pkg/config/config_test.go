package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.Cookie.Secure, "fuera de producción la cookie no es secure")
	assert.Equal(t, "Lax", cfg.Cookie.SameSite)
	assert.Equal(t, "remote", cfg.Shift.Store)
	assert.Equal(t, 3, cfg.Backend.ReadRetries)
	assert.Equal(t, DefaultProtectedPaths, cfg.Gate.ProtectedPaths)
	assert.Equal(t, "/no-access", cfg.Gate.NoAccessPath)
	assert.True(t, cfg.HTTP.SwaggerEnabled)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "Asia/Jakarta", cfg.Shift.Timezone)
}

func TestFromViper_ProduccionEndureceCookies(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("BACKEND_URL", "https://pos.example.com/api/")
	v.Set("GATE_PROTECTED_PATHS", "/sales, /shifts,,")
	v.Set("BACKEND_TIMEOUT_SECONDS", "5")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, "Strict", cfg.Cookie.SameSite)
	assert.Equal(t, "https://pos.example.com/api", cfg.Backend.BaseURL, "se elimina la barra final")
	assert.Equal(t, []string{"/sales", "/shifts"}, cfg.Gate.ProtectedPaths)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.HTTP.SwaggerEnabled)
}

func TestFromViper_ShiftStoreInvalido(t *testing.T) {
	v := viper.New()
	v.Set("SHIFT_STORE", "redis")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss/w", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%2Fw@db:5432/pos?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
