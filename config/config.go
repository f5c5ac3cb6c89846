// Package config reads process configuration from the environment, after an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadEnv loads .env into the process environment when present. Variables
// already set win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}
}

type Database struct {
	Driver       string
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	MaxOpenConns int
}

// DSN returns URL when set, otherwise builds a driver-specific DSN from the
// discrete fields.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case "sqlite":
		if d.Name == "" {
			return "it_inventory.db"
		}
		return d.Name
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     d.Host + ":" + d.Port,
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable&TimeZone=UTC",
		}
		return u.String()
	}
}

type Redis struct {
	Addr     string
	Password string
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether outgoing mail is configured.
func (s SMTP) Enabled() bool { return s.Host != "" }

type Export struct {
	Driver      string // fs, s3 or memory
	FSRoot      string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	S3AccessKey string
	S3SecretKey string
}

type Bootstrap struct {
	Username string
	Email    string
	Password string
}

type Config struct {
	Port          string
	WebOrigin     string
	LogLevel      slog.Level
	JWTSecret     string
	JWTTTL        time.Duration
	SessionTTL    time.Duration
	SweepInterval time.Duration

	Database  Database
	Redis     Redis
	SMTP      SMTP
	Export    Export
	Bootstrap Bootstrap
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "3001")
	v.SetDefault("WEB_ORIGIN", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("SWEEP_INTERVAL_MINUTES", 60)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "it_inventory")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM", "IT Inventory <noreply@localhost>")
	v.SetDefault("EXPORT_DRIVER", "fs")
	v.SetDefault("EXPORT_FS_ROOT", "exports")
	v.SetDefault("EXPORT_S3_REGION", "us-east-1")
}

// Load builds the configuration from environment variables, applying
// defaults for everything optional. JWT_SECRET is required.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	defaults(v)
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(v.GetString("LOG_LEVEL")))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg := Config{
		Port:          v.GetString("PORT"),
		WebOrigin:     v.GetString("WEB_ORIGIN"),
		LogLevel:      level,
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTL:        time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		SweepInterval: time.Duration(v.GetInt("SWEEP_INTERVAL_MINUTES")) * time.Minute,
		Database: Database{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			URL:          v.GetString("DATABASE_URL"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		SMTP: SMTP{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		Export: Export{
			Driver:      strings.ToLower(v.GetString("EXPORT_DRIVER")),
			FSRoot:      v.GetString("EXPORT_FS_ROOT"),
			S3Bucket:    v.GetString("EXPORT_S3_BUCKET"),
			S3Region:    v.GetString("EXPORT_S3_REGION"),
			S3Endpoint:  v.GetString("EXPORT_S3_ENDPOINT"),
			S3PathStyle: v.GetBool("EXPORT_S3_PATH_STYLE"),
			S3AccessKey: v.GetString("EXPORT_S3_ACCESS_KEY"),
			S3SecretKey: v.GetString("EXPORT_S3_SECRET_KEY"),
		},
		Bootstrap: Bootstrap{
			Username: v.GetString("BOOTSTRAP_ADMIN_USERNAME"),
			Email:    v.GetString("BOOTSTRAP_ADMIN_EMAIL"),
			Password: v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
		},
	}
	cfg.SessionTTL = cfg.JWTTTL

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	switch cfg.Export.Driver {
	case "fs", "memory":
	case "s3":
		if cfg.Export.S3Bucket == "" {
			return Config{}, fmt.Errorf("EXPORT_S3_BUCKET is required for the s3 export driver")
		}
	default:
		return Config{}, fmt.Errorf("unsupported EXPORT_DRIVER %q", cfg.Export.Driver)
	}
	return cfg, nil
}
