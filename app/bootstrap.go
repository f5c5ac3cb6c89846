package app

import (
	"context"
	"errors"

	"it_inventory/apperr"
	"it_inventory/models"
)

// BootstrapFirstAdmin creates the administrator named by the BOOTSTRAP_ADMIN_*
// settings when the database has no active admin yet. It does nothing when
// the settings are incomplete.
func (a *App) BootstrapFirstAdmin(ctx context.Context) error {
	b := a.Config.Bootstrap
	if b.Username == "" || b.Email == "" || b.Password == "" {
		return nil
	}
	n, err := a.Repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	u := &models.User{
		Username: b.Username,
		Email:    b.Email,
		Password: b.Password,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	err = a.Repo.CreateUser(ctx, u)
	if errors.Is(err, apperr.ErrConflict) {
		a.Log.Warn("bootstrap admin not created, username or email taken", "username", b.Username)
		return nil
	}
	if err != nil {
		return err
	}
	a.Log.Info("bootstrap admin created", "username", u.Username, "id", u.ID)
	return nil
}
