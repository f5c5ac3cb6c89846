package controllers

import (
	"errors"
	"net/http"

	"it_inventory/app"
	"it_inventory/apperr"
	"it_inventory/auth"
	"it_inventory/input"
	"it_inventory/models"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{s} }

func badCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, app.H{"success": false, "message": "Invalid credentials"})
}

// POST /api/auth/login {username, password}; username may be the e-mail.
func (ac *AuthController) Login(c *gin.Context) {
	var req input.LoginRequest
	if !ac.bind(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		ac.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	u, err := ac.Repo.FindUserByLogin(ctx, req.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		badCredentials(c)
		return
	}
	if err != nil {
		ac.fail(c, err)
		return
	}
	if auth.CheckPassword(u.Password, req.Password) != nil {
		badCredentials(c)
		return
	}
	if !u.IsActive {
		c.JSON(http.StatusUnauthorized, app.H{"success": false, "message": "User account is deactivated."})
		return
	}

	sess, err := ac.Sessions.Create(ctx, u.ID, string(u.Role))
	if err != nil {
		ac.fail(c, err)
		return
	}
	token, exp, err := ac.Tokens.Issue(u.ID, string(u.Role), sess.ID)
	if err != nil {
		_ = ac.Sessions.Delete(ctx, sess.ID)
		ac.fail(c, err)
		return
	}
	if err := ac.Repo.TouchUserLogin(ctx, u.ID); err != nil {
		ac.Log.Warn("login bookkeeping failed", "user_id", u.ID, "err", err)
	}
	okMsg(c, http.StatusOK, "Login successful", app.H{"user": u, "token": token, "expiresAt": exp})
}

// POST /api/auth/logout drops the session behind the presented token.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Sessions.Delete(c.Request.Context(), c.GetString(app.CtxSessionID)); err != nil {
		ac.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Logged out", nil)
}

// GET /api/auth/profile
func (ac *AuthController) Profile(c *gin.Context) {
	ok(c, app.CurrentUser(c))
}

// PUT /api/auth/profile; role and active flag are not self-service.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var req input.UserUpdateRequest
	if !ac.bind(c, &req) {
		return
	}
	u, err := ac.Repo.UpdateUser(c.Request.Context(), app.CurrentUserID(c), func(u *models.User) error {
		return input.ApplyUserUpdate(u, req, true)
	})
	if err != nil {
		ac.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Profile updated successfully", u)
}

// PUT /api/auth/change-password {currentPassword, newPassword}
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var req input.ChangePasswordRequest
	if !ac.bind(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		ac.fail(c, err)
		return
	}
	u := app.CurrentUser(c)
	if auth.CheckPassword(u.Password, req.CurrentPassword) != nil {
		ac.fail(c, apperr.Validation("Current password is incorrect"))
		return
	}
	if err := ac.Repo.SetPassword(c.Request.Context(), u.ID, req.NewPassword); err != nil {
		ac.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Password changed successfully", nil)
}
