package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.yaml"), envMap(nil))
	require.Error(t, err, "explicit path must exist")
	assert.Nil(t, cfg)

	cfg, err = load("", envMap(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 12*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 30*time.Minute, cfg.Auth.ResetTokenTTL())
	assert.Equal(t, 6, cfg.Auth.ResetCodeLength)
	assert.Equal(t, "dr.kelven@aura.app", cfg.Admin.Email)
	assert.True(t, cfg.Auth.ExposeResetCode)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  env: staging
database:
  url: postgres://file/aura
auth:
  jwt_secret: from-file
  access_token_expire_minutes: 60
admin:
  email: admin@clinic.test
`)

	cfg, err := load(path, envMap(map[string]string{
		"JWT_SECRET":  "from-env",
		"SERVER_PORT": "9100",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "staging", cfg.Server.Env)
	assert.Equal(t, "postgres://file/aura", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "admin@clinic.test", cfg.Admin.Email)
	// значения, которых нет в файле, остаются по умолчанию
	assert.Equal(t, 30, cfg.Auth.ResetTokenExpireMinutes)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8123\n")
	cfg, err := load("", envMap(map[string]string{"CONFIG_PATH": path}))
	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.Server.Port)
}

func TestLoad_Production(t *testing.T) {
	_, err := load("", envMap(map[string]string{"SERVER_ENV": "production"}))
	assert.ErrorContains(t, err, "must be changed in production")

	cfg, err := load("", envMap(map[string]string{
		"SERVER_ENV": "prod",
		"JWT_SECRET": "a-real-secret",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.Auth.ExposeResetCode)
}

func TestLoad_EnvironmentAlias(t *testing.T) {
	_, err := load("", envMap(map[string]string{"ENVIRONMENT": "prod"}))
	assert.ErrorContains(t, err, "must be changed in production")

	cfg, err := load("", envMap(map[string]string{
		"ENVIRONMENT": "prod",
		"JWT_SECRET":  "a-real-secret",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.AuthSettings().ExposeCode)

	cfg, err = load("", envMap(map[string]string{
		"ENVIRONMENT": "prod",
		"SERVER_ENV":  "development",
	}))
	require.NoError(t, err)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_InvalidEnvNumber(t *testing.T) {
	_, err := load("", envMap(map[string]string{"ACCESS_TOKEN_EXPIRE_MINUTES": "soon"}))
	assert.ErrorContains(t, err, "ACCESS_TOKEN_EXPIRE_MINUTES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret is required"},
		{"bad algorithm", func(c *Config) { c.Auth.Algorithm = "RS256" }, "algorithm not supported"},
		{"zero ttl", func(c *Config) { c.Auth.AccessTokenExpireMinutes = 0 }, "access_token_expire_minutes"},
		{"zero reset ttl", func(c *Config) { c.Auth.ResetTokenExpireMinutes = 0 }, "reset_token_expire_minutes"},
		{"short code", func(c *Config) { c.Auth.ResetCodeLength = 2 }, "reset_code_length"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"no dsn", func(c *Config) { c.Database.DSN = "" }, "database.url"},
		{"smtp without host", func(c *Config) { c.Email.Enabled = true }, "smtp_host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestAuthSettings(t *testing.T) {
	cfg := Default()
	cfg.Auth.AccessTokenExpireMinutes = 90

	s := cfg.AuthSettings()
	assert.Equal(t, DefaultJWTSecret, s.Secret)
	assert.Equal(t, 90*time.Minute, s.AccessTTL)
	assert.Equal(t, 30*time.Minute, s.ResetTTL)
	assert.Equal(t, 6, s.CodeLength)
	assert.True(t, s.ExposeCode)
	assert.True(t, s.Supersede)

	cfg.Server.Env = "production"
	assert.False(t, cfg.AuthSettings().ExposeCode, "code is never exposed in production")
}
