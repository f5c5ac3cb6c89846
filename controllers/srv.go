// Package controllers holds the gin handlers. Handlers decode and normalize
// the request, call one repository operation and shape the response; every
// rule lives below them.
package controllers

import (
	"log/slog"

	"it_inventory/app"
	"it_inventory/auth"
	"it_inventory/config"
	"it_inventory/db"
	"it_inventory/exportstore"
	"it_inventory/notify"
	"it_inventory/session"
)

// Srv carries the dependencies every controller needs.
type Srv struct {
	Repo     *db.Repo
	Sessions session.Sessions
	Tokens   *auth.Issuer
	Notifier *notify.Notifier
	Exports  exportstore.Store
	Config   config.Config
	Log      *slog.Logger
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:     a.Repo,
		Sessions: a.Sessions,
		Tokens:   a.Tokens,
		Notifier: a.Notifier,
		Exports:  a.Exports,
		Config:   a.Config,
		Log:      a.Log,
	}
}
