package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, StorageLocal, cfg.Storage.Type)
	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: DriverMemory},
			JWT:      JWTConfig{Secret: "s", AccessExpiration: time.Hour, RefreshExpiration: time.Hour},
			Admin:    AdminConfig{Username: "admin"},
			Storage:  StorageConfig{Type: StorageLocal},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "DB_DRIVER"},
		{name: "postgres without password", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: "DB_PASSWORD"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Storage.Type = StorageS3 }, wantErr: "S3_BUCKET"},
		{name: "nightly schedule", mutate: func(c *Config) { c.Backup.Schedule = "0 3 * * *" }},
		{name: "bad schedule", mutate: func(c *Config) { c.Backup.Schedule = "every night" }, wantErr: "BACKUP_SCHEDULE"},
		{name: "negative retention", mutate: func(c *Config) { c.Backup.Retention = -1 }, wantErr: "BACKUP_RETENTION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetEnvSlice(t *testing.T) {
	t.Setenv("TEST_LIST", " a, b ,,c ")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvSlice("TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvSlice("TEST_MISSING_LIST", []string{"x"}))
}
