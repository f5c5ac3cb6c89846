package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"it_inventory/apperr"
	"it_inventory/auth"
	"it_inventory/models"
	"it_inventory/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User not found")
}

type authHarness struct {
	router   *gin.Engine
	tokens   *auth.Issuer
	sessions *session.MemoryStore
	users    fakeUsers
}

func newAuthHarness(roles ...models.Role) *authHarness {
	gin.SetMode(gin.TestMode)
	h := &authHarness{
		router:   gin.New(),
		tokens:   auth.NewIssuer("test-secret", time.Hour),
		sessions: session.NewMemoryStore(time.Hour),
		users:    fakeUsers{},
	}
	chain := []gin.HandlerFunc{AuthRequired(h.tokens, h.sessions, h.users)}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, H{"userID": CurrentUserID(c), "username": CurrentUser(c).Username})
	})
	h.router.GET("/x", chain...)
	return h
}

func (h *authHarness) token(t *testing.T, u *models.User) (string, string) {
	t.Helper()
	h.users[u.ID] = u
	s, err := h.sessions.Create(context.Background(), u.ID, string(u.Role))
	require.NoError(t, err)
	tok, _, err := h.tokens.Issue(u.ID, string(u.Role), s.ID)
	require.NoError(t, err)
	return tok, s.ID
}

func (h *authHarness) get(header string) (int, string) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body.Message
}

func TestAuthRequiredRejections(t *testing.T) {
	h := newAuthHarness()
	alice := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser, IsActive: true}
	tok, sid := h.token(t, alice)

	code, msg := h.get("")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access denied. No token provided.", msg)

	code, msg = h.get("Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token.", msg)

	code, _ = h.get("Bearer " + tok)
	assert.Equal(t, http.StatusOK, code)

	require.NoError(t, h.sessions.Delete(context.Background(), sid))
	code, msg = h.get("Bearer " + tok)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Session expired. Please login again.", msg)
}

func TestAuthRequiredChecksStoredUser(t *testing.T) {
	h := newAuthHarness()
	bob := &models.User{ID: "u2", Username: "bob", Role: models.RoleUser, IsActive: true}
	tok, sid := h.token(t, bob)

	bob.IsActive = false
	code, msg := h.get("Bearer " + tok)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "User account is deactivated.", msg)

	_, err := h.sessions.Get(context.Background(), sid)
	assert.ErrorIs(t, err, session.ErrNotFound, "session is dropped")

	carol := &models.User{ID: "u3", Username: "carol", Role: models.RoleUser, IsActive: true}
	tok, _ = h.token(t, carol)
	delete(h.users, carol.ID)
	code, msg = h.get("Bearer " + tok)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "User not found.", msg)
}

func TestRequireRolesUsesStoredRole(t *testing.T) {
	h := newAuthHarness(models.RoleAdmin, models.RoleManager)
	dan := &models.User{ID: "u4", Username: "dan", Role: models.RoleUser, IsActive: true}
	tok, _ := h.token(t, dan)

	code, msg := h.get("Bearer " + tok)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. Insufficient permissions.", msg)

	// Promotion takes effect without a new token.
	dan.Role = models.RoleManager
	code, _ = h.get("Bearer " + tok)
	assert.Equal(t, http.StatusOK, code)
}
