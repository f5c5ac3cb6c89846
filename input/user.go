package input

import (
	"strconv"

	"it_inventory/models"
)

const MinPasswordLength = 6

var passwordRule = "min=" + strconv.Itoa(MinPasswordLength)

type RegisterRequest struct {
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	Password   string  `json:"password"`
	FullName   *string `json:"fullName"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
}

// NewUser validates a registration. The returned user carries the plaintext
// password; the repository hashes it before the write.
func NewUser(req RegisterRequest) (*models.User, error) {
	var p problems
	u := &models.User{
		Username:   p.required("username", req.Username),
		FullName:   p.required("fullName", req.FullName),
		Department: Optional(req.Department),
		Role:       models.RoleUser,
		IsActive:   true,
	}
	if u.Username != "" {
		p.check(u.Username, "min=3,max=50", "Username must be between 3 and 50 characters")
	}
	if e := p.email("email", req.Email); e != nil {
		u.Email = *e
	} else if Optional(req.Email) == nil {
		p.add("email is required")
	}
	p.check(req.Password, passwordRule, "Password must be at least 6 characters")
	u.Password = req.Password
	if r := enum(&p, "role", req.Role, models.Roles); r != nil {
		u.Role = *r
	}
	return u, p.err()
}

type UserUpdateRequest struct {
	Email      *string `json:"email"`
	FullName   *string `json:"fullName"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"isActive"`
}

// ApplyUserUpdate applies an admin update. Profile updates pass selfService so
// role and active flag are ignored.
func ApplyUserUpdate(u *models.User, req UserUpdateRequest, selfService bool) error {
	var p problems
	if set(req.Email) {
		if e := p.email("email", req.Email); e != nil {
			u.Email = *e
		} else if Optional(req.Email) == nil {
			p.add("email is required")
		}
	}
	if set(req.FullName) {
		u.FullName = p.required("fullName", req.FullName)
	}
	if set(req.Department) {
		u.Department = Optional(req.Department)
	}
	if !selfService {
		if r := enum(&p, "role", req.Role, models.Roles); r != nil {
			u.Role = *r
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
	}
	return p.err()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	var p problems
	p.check(r.CurrentPassword, "required", "Current password is required")
	p.check(r.NewPassword, passwordRule, "New password must be at least 6 characters")
	return p.err()
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var p problems
	if Optional(&r.Username) == nil {
		p.add("Username or email is required")
	}
	p.check(r.Password, "required", "Password is required")
	return p.err()
}
