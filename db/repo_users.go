package db

import (
	"context"
	"strings"

	"it_inventory/apperr"
	"it_inventory/auth"
	"it_inventory/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const duplicateUserMsg = "Username or email already exists"

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "User not found")
	}
	return &u, nil
}

// FindUserByLogin matches the login name against username or e-mail.
func (r *Repo) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	var u models.User
	err := r.DB.WithContext(ctx).
		Where("username = ? OR LOWER(email) = ?", login, strings.ToLower(login)).
		First(&u).Error
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return &u, nil
}

func userTaken(tx *gorm.DB, u *models.User) (bool, error) {
	var n int64
	err := tx.Unscoped().Model(&models.User{}).
		Where("(username = ? OR LOWER(email) = ?) AND id <> ?", u.Username, strings.ToLower(u.Email), u.ID).
		Count(&n).Error
	return n > 0, err
}

// CreateUser hashes u.Password (plaintext on entry) before the insert.
func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.ID = uuid.NewString()
	u.Password = hash
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := userTaken(tx, u)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(apperr.CodeDuplicateName, duplicateUserMsg)
		}
		return conflict(tx.Create(u).Error, apperr.CodeDuplicateName, duplicateUserMsg)
	})
}

// UpdateUser applies mutate to the stored user and writes the profile
// columns. Passwords change only through SetPassword.
func (r *Repo) UpdateUser(ctx context.Context, id string, mutate func(*models.User) error) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&u, "id = ?", id).Error; err != nil {
			return notFound(err, "User not found")
		}
		if err := mutate(&u); err != nil {
			return err
		}
		taken, err := userTaken(tx, &u)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(apperr.CodeDuplicateName, duplicateUserMsg)
		}
		err = tx.Model(&u).Select("email", "full_name", "role", "department", "is_active").Updates(&u).Error
		return conflict(err, apperr.CodeDuplicateName, duplicateUserMsg)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetPassword hashes plain and stores it.
func (r *Repo) SetPassword(ctx context.Context, id, plain string) error {
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// DeleteUser soft-deletes the account. Records that reference it keep the id
// and still resolve through the retained row.
func (r *Repo) DeleteUser(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// ListUsers pages users, newest first; q matches username, full name or e-mail.
func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > MaxLimit {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if like, ok := likePattern(q); ok {
		tx = tx.Where(searchClause([]string{"username", "full_name", "email"}), likeArgs(like, 3)...)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	users := []models.User{}
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

func (r *Repo) TouchUserLogin(ctx context.Context, userID string) error {
	now := r.Now()
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"last_login":   now,
			"last_seen_at": now,
			"login_count":  gorm.Expr("COALESCE(login_count, 0) + 1"),
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", r.Now()).Error
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Count(&n).Error
	return n, err
}
