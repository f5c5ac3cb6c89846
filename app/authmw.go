package app

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"it_inventory/auth"
	"it_inventory/models"
	"it_inventory/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	CtxUserID    = "userID"
	CtxRole      = "role"
	CtxSessionID = "sessionID"
	CtxUser      = "user"
)

type UserLookup interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

func deny(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, H{"success": false, "message": msg})
}

// AuthRequired accepts "Authorization: Bearer <jwt>". The token must name a
// live session belonging to its subject, and the user must still exist and
// be active; the role used for authorization is the stored one.
func AuthRequired(tokens *auth.Issuer, sessions session.Sessions, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			deny(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			deny(c, http.StatusUnauthorized, "Invalid token.")
			return
		}
		ctx := c.Request.Context()
		as, err := sessions.Get(ctx, claims.SessionID)
		switch {
		case errors.Is(err, session.ErrNotFound):
			deny(c, http.StatusUnauthorized, "Session expired. Please login again.")
			return
		case err != nil:
			deny(c, http.StatusServiceUnavailable, "Session store unavailable.")
			return
		}
		if as.UserID != claims.Subject {
			deny(c, http.StatusUnauthorized, "Invalid token.")
			return
		}
		u, err := users.FindUserByID(ctx, claims.Subject)
		if err != nil {
			_ = sessions.Delete(ctx, claims.SessionID)
			deny(c, http.StatusUnauthorized, "User not found.")
			return
		}
		if !u.IsActive {
			_ = sessions.Delete(ctx, claims.SessionID)
			deny(c, http.StatusUnauthorized, "User account is deactivated.")
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxRole, u.Role)
		c.Set(CtxSessionID, claims.SessionID)
		c.Set(CtxUser, u)
		c.Next()
	}
}

// RequireRoles lets the request through only for the listed roles. It must
// run after AuthRequired.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxRole)
		if !ok {
			deny(c, http.StatusUnauthorized, "Authentication required.")
			return
		}
		role, _ := v.(models.Role)
		if !slices.Contains(roles, role) {
			deny(c, http.StatusForbidden, "Access denied. Insufficient permissions.")
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, or "" outside
// AuthRequired.
func CurrentUserID(c *gin.Context) string { return c.GetString(CtxUserID) }

func CurrentUser(c *gin.Context) *models.User {
	v, _ := c.Get(CtxUser)
	u, _ := v.(*models.User)
	return u
}
