package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(kv map[string]any) *viper.Viper {
	v := viper.New()
	defaults(v)
	for k, val := range kv {
		v.Set(k, val)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(newViper(map[string]any{"JWT_SECRET": "s"}))
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "fs", cfg.Export.Driver)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := load(newViper(nil))
	assert.ErrorContains(t, err, "JWT_SECRET")

	_, err = load(newViper(map[string]any{"JWT_SECRET": "s", "EXPORT_DRIVER": "ftp"}))
	assert.ErrorContains(t, err, "EXPORT_DRIVER")

	_, err = load(newViper(map[string]any{"JWT_SECRET": "s", "EXPORT_DRIVER": "s3"}))
	assert.ErrorContains(t, err, "EXPORT_S3_BUCKET")

	_, err = load(newViper(map[string]any{"JWT_SECRET": "s", "LOG_LEVEL": "chatty"}))
	assert.ErrorContains(t, err, "LOG_LEVEL")
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u:p@db:5432/inv?sslmode=disable&TimeZone=UTC",
		Database{Driver: "postgres", User: "u", Password: "p", Host: "db", Port: "5432", Name: "inv"}.DSN())
	assert.Equal(t, "u:p@tcp(db:3306)/inv?charset=utf8mb4&parseTime=True&loc=UTC",
		Database{Driver: "mysql", User: "u", Password: "p", Host: "db", Port: "3306", Name: "inv"}.DSN())
	assert.Equal(t, "file.db", Database{Driver: "sqlite", Name: "file.db"}.DSN())
	assert.Equal(t, "postgres://x", Database{Driver: "mysql", URL: "postgres://x"}.DSN())
}
