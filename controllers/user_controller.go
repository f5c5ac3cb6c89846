package controllers

import (
	"net/http"

	"it_inventory/app"
	"it_inventory/apperr"
	"it_inventory/input"
	"it_inventory/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserController is the admin-only account management surface.
type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{s} }

func userID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"success": false, "message": "invalid user id"})
		return "", false
	}
	return id, true
}

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), queryInt(c, "page", 1), queryInt(c, "size", 20))
	if err != nil {
		uc.fail(c, err)
		return
	}
	ok(c, app.H{"total": res.Total, "users": res.Users})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	u, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.fail(c, err)
		return
	}
	ok(c, u)
}

// POST /api/users registers an account. Only admins create users.
func (uc *UserController) CreateUser(c *gin.Context) {
	var req input.RegisterRequest
	if !uc.bind(c, &req) {
		return
	}
	u, err := input.NewUser(req)
	if err != nil {
		uc.fail(c, err)
		return
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		uc.fail(c, err)
		return
	}
	okMsg(c, http.StatusCreated, "User registered successfully", u)
}

// PUT /api/users/:id. Deactivating an account revokes its sessions.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	var req input.UserUpdateRequest
	if !uc.bind(c, &req) {
		return
	}
	self := id == app.CurrentUserID(c)
	u, err := uc.Repo.UpdateUser(c.Request.Context(), id, func(u *models.User) error {
		if err := input.ApplyUserUpdate(u, req, false); err != nil {
			return err
		}
		if self && (!u.IsActive || u.Role != models.RoleAdmin) {
			return apperr.Validation("You cannot deactivate or demote your own account")
		}
		return nil
	})
	if err != nil {
		uc.fail(c, err)
		return
	}
	if !u.IsActive {
		if err := uc.Sessions.RevokeAllForUser(c.Request.Context(), u.ID); err != nil {
			uc.Log.Warn("revoke sessions failed", "user_id", u.ID, "err", err)
		}
	}
	okMsg(c, http.StatusOK, "User updated successfully", u)
}

// DELETE /api/users/:id soft-deletes the account and revokes its sessions.
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	if id == app.CurrentUserID(c) {
		uc.fail(c, apperr.Validation("You cannot delete your own account"))
		return
	}
	if err := uc.Repo.DeleteUser(c.Request.Context(), id); err != nil {
		uc.fail(c, err)
		return
	}
	if err := uc.Sessions.RevokeAllForUser(c.Request.Context(), id); err != nil {
		uc.Log.Warn("revoke sessions failed", "user_id", id, "err", err)
	}
	okMsg(c, http.StatusOK, "User deleted successfully", nil)
}
