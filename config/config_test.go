package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("ASSIGN_LOCK_TTL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, StoreDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, AuthModeHeader, cfg.Firebase.AuthMode)
	assert.Equal(t, 30*time.Second, cfg.Assignment.LockTTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ASSIGN_CRON", "0 */5 * * * *")
	t.Setenv("ASSIGN_LOCK_TTL", "5s")
	t.Setenv("RECOMPUTE_RATE", "0.5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "0 */5 * * * *", cfg.Assignment.Cron)
	assert.Equal(t, 5*time.Second, cfg.Assignment.LockTTL)
	assert.InDelta(t, 0.5, cfg.Assignment.RecomputeRate, 1e-9)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("ASSIGN_APPLY_TIMEOUT", "soon")
	t.Setenv("DB_AUTO_MIGRATE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10*time.Second, cfg.Assignment.ApplyTimeout)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: "8080"},
			Database:   DatabaseConfig{Driver: StoreDriverPostgres, Host: "localhost"},
			Firebase:   FirebaseConfig{AuthMode: AuthModeHeader},
			Assignment: AssignmentConfig{LockTTL: time.Second, ApplyTimeout: time.Second},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }, "PORT"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "STORE_DRIVER"},
		{"postgres without host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"firebase without credentials", func(c *Config) { c.Firebase.AuthMode = AuthModeFirebase }, "FIREBASE_CREDENTIALS_PATH"},
		{"unknown auth mode", func(c *Config) { c.Firebase.AuthMode = "oauth" }, "AUTH_MODE"},
		{"zero lock ttl", func(c *Config) { c.Assignment.LockTTL = 0 }, "ASSIGN_LOCK_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
