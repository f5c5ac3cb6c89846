// Package app wires the process: database, Redis, sessions, tokens, mail,
// export archive, metrics and the gin engine with its shared middleware.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"it_inventory/auth"
	"it_inventory/config"
	"it_inventory/db"
	"it_inventory/exportstore"
	"it_inventory/jobs"
	"it_inventory/metrics"
	"it_inventory/notify"
	"it_inventory/session"

	"github.com/gin-gonic/gin"
	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers use these aliases to stay short.
type Ctx = gin.Context
type H = gin.H

type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config config.Config
	Log    *slog.Logger

	Repo     *db.Repo
	Sessions session.Sessions
	Tokens   *auth.Issuer
	Notifier *notify.Notifier
	Exports  exportstore.Store
	Metrics  *metrics.Metrics
	Sweeper  *jobs.Sweeper
}

// Deps are the externally built collaborators. MustNew connects the real
// ones; tests pass SQLite, in-memory sessions and fakes.
type Deps struct {
	DB       *gorm.DB
	RDB      *redis.Client
	Sessions session.Sessions
	Exports  exportstore.Store
	Mailer   notify.Mailer
	Locker   jobs.Locker
}

// NewLogger returns a JSON logger in release mode and a text logger otherwise.
func NewLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if gin.Mode() == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// New assembles the App from already connected dependencies.
func New(cfg config.Config, log *slog.Logger, d Deps) *App {
	repo := db.NewRepo(d.DB)
	m := metrics.New()
	repo.OnTransition = m.Transition

	n := notify.NewNotifier(d.Mailer, log)
	n.OnResult = m.Notification

	r := gin.Default()
	r.Use(m.Middleware())
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router:   r,
		DB:       d.DB,
		RDB:      d.RDB,
		Config:   cfg,
		Log:      log,
		Repo:     repo,
		Sessions: d.Sessions,
		Tokens:   auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Notifier: n,
		Exports:  d.Exports,
		Metrics:  m,
		Sweeper:  jobs.NewSweeper(repo, d.Locker, cfg.SweepInterval, log),
	}
}

// MustNew connects the database, Redis and the export store, exiting the
// process on failure.
func MustNew(cfg config.Config, log *slog.Logger) *App {
	fatal := func(msg string, err error) {
		log.Error(msg, "err", err)
		os.Exit(1)
	}

	gdb, err := db.Connect(cfg.Database, log)
	if err != nil {
		fatal("database", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fatal("redis", err)
	}

	exports, err := exportstore.Open(ctx, cfg.Export)
	if err != nil {
		fatal("export store", err)
	}

	return New(cfg, log, Deps{
		DB:       gdb,
		RDB:      rdb,
		Sessions: session.NewStore(rdb, cfg.SessionTTL),
		Exports:  exports,
		Mailer:   notify.NewMailer(cfg.SMTP),
		Locker:   jobs.NewRedisLock(rdb),
	})
}

// Handler is the router wrapped with the Server-Timing middleware, which
// also carries the per-statement database timings.
func (a *App) Handler() http.Handler {
	return servertiming.Middleware(a.Router, nil)
}

// Close waits for queued e-mails and releases connections.
func (a *App) Close() {
	a.Notifier.Wait()
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
