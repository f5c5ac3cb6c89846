package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"it_inventory/app"
	"it_inventory/apperr"
	"it_inventory/config"
	"it_inventory/db"
	"it_inventory/exportstore"
	"it_inventory/models"
	"it_inventory/notify"
	"it_inventory/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (f *fakeMailer) Send(_ context.Context, m notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type testServer struct {
	t      *testing.T
	app    *app.App
	h      http.Handler
	mailer *fakeMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	gdb, err := db.Connect(config.Database{Driver: db.DriverSQLite, Name: ":memory:", MaxOpenConns: 1}, log)
	require.NoError(t, err)

	cfg := config.Config{
		WebOrigin:  "http://localhost:5173",
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		SessionTTL: time.Hour,
	}
	mailer := &fakeMailer{}
	a := app.New(cfg, log, app.Deps{
		DB:       gdb,
		Sessions: session.NewMemoryStore(time.Hour),
		Exports:  exportstore.NewMemory(),
		Mailer:   mailer,
	})
	a.Repo.Now = func() time.Time { return testNow }
	RegisterRoutes(a.Router, a)
	t.Cleanup(a.Close)

	return &testServer{t: t, app: a, h: a.Handler(), mailer: mailer}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) seedUser(username string, role models.Role) {
	s.t.Helper()
	require.NoError(s.t, s.app.Repo.CreateUser(context.Background(), &models.User{
		Username: username, Email: username + "@example.com", Password: "secret1",
		FullName: username, Role: role, IsActive: true,
	}))
}

func (s *testServer) login(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": "secret1"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &data)
	require.NotEmpty(s.t, data.Token)
	return data.Token
}

func (s *testServer) createInventory(token, fullName string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/inventory", token, map[string]string{
		"fullName": fullName, "department": "IT", "pcType": "LAPTOP",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var inv struct {
		ID string `json:"id"`
	}
	decode(s.t, w, &inv)
	return inv.ID
}

func TestLoginProfileLogout(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)

	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w, nil).Message)

	token := s.login("admin@example.com")

	w = s.do(http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Username string `json:"username"`
	}
	decode(t, w, &me)
	assert.Equal(t, "admin", me.Username)

	w = s.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session expired. Please login again.", decode(t, w, nil).Message)

	w = s.do(http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)
	s.seedUser("viewer", models.RoleUser)
	admin, viewer := s.login("admin"), s.login("viewer")

	w := s.do(http.MethodPost, "/api/inventory", viewer, map[string]string{
		"fullName": "Alice", "department": "IT", "pcType": "LAPTOP",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.createInventory(admin, "Alice")
	w = s.do(http.MethodGet, "/api/inventory", viewer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/users", viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/reports/inventory", viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/reports/dashboard", viewer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeactivatedUserLosesAccess(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)
	s.seedUser("bob", models.RoleUser)
	admin, bob := s.login("admin"), s.login("bob")

	u, err := s.app.Repo.FindUserByLogin(context.Background(), "bob")
	require.NoError(t, err)
	w := s.do(http.MethodPut, "/api/users/"+u.ID, admin, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/auth/profile", bob, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInventoryListAndErrors(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)
	token := s.login("admin")
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		s.createInventory(token, name)
	}

	w := s.do(http.MethodGet, "/api/inventory?limit=2&sortBy=fullName&sortOrder=ASC", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Inventory  []models.Inventory `json:"inventory"`
		Pagination db.Pagination      `json:"pagination"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Inventory, 2)
	assert.Equal(t, db.Pagination{Total: 3, Page: 1, Limit: 2, TotalPages: 2}, page.Pagination)
	assert.Equal(t, "Alice", page.Inventory[0].FullName)

	w = s.do(http.MethodGet, "/api/inventory/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Success)
	assert.Equal(t, "NotFound", env.Kind)

	w = s.do(http.MethodPost, "/api/inventory", token, map[string]string{"department": "IT"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperr.KindValidation), decode(t, w, nil).Kind)
}

func TestBorrowAndReturnOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)
	token := s.login("admin")
	invID := s.createInventory(token, "Alice")

	borrow := map[string]string{
		"inventoryId":        invID,
		"borrowerName":       "Bob",
		"borrowerEmail":      "bob@example.com",
		"expectedReturnDate": "2024-06-17",
	}
	w := s.do(http.MethodPost, "/api/borrow", token, borrow)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &rec)
	assert.Equal(t, string(models.BorrowBorrowed), rec.Status)

	w = s.do(http.MethodPost, "/api/borrow", token, borrow)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_BORROWED", decode(t, w, nil).Code)

	w = s.do(http.MethodGet, "/api/borrow/overdue", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/api/borrow/"+rec.ID+"/return", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &rec)
	assert.Equal(t, string(models.BorrowReturned), rec.Status)

	w = s.do(http.MethodPut, "/api/borrow/"+rec.ID+"/return", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	s.app.Notifier.Wait()
	assert.Equal(t, 2, s.mailer.count())
}

func TestDisposalFlowRetiresAsset(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)
	token := s.login("admin")
	invID := s.createInventory(token, "Alice")

	w := s.do(http.MethodPost, "/api/disposal", token, map[string]any{
		"inventoryId": invID, "disposalDate": "2024-06-10", "disposalMethod": "Sold",
		"reason": "Upgrade", "salePrice": "75.5",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var d struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &d)

	w = s.do(http.MethodPut, "/api/disposal/"+d.ID+"/complete", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "pending cannot complete")

	w = s.do(http.MethodPut, "/api/disposal/"+d.ID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPut, "/api/disposal/"+d.ID+"/complete", token, map[string]string{"certificateNumber": "C-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &d)
	assert.Equal(t, string(models.DisposalCompleted), d.Status)

	w = s.do(http.MethodGet, "/api/inventory/"+invID, token, nil)
	var inv struct {
		Status string `json:"status"`
	}
	decode(t, w, &inv)
	assert.Equal(t, string(models.InventoryRetired), inv.Status)

	w = s.do(http.MethodPost, "/api/borrow", token, map[string]string{
		"inventoryId": invID, "borrowerName": "Bob", "expectedReturnDate": "2024-06-17",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ASSET_RETIRED", decode(t, w, nil).Code)
}

func TestCSVReportIsArchived(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)
	token := s.login("admin")
	s.createInventory(token, "Smith, John")

	w := s.do(http.MethodGet, "/api/reports/inventory?format=csv&archive=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inventory-report-2024-06-10.csv")
	assert.Contains(t, w.Body.String(), `"Smith, John"`)
	csv := w.Body.String()

	key := w.Header().Get("X-Export-Key")
	require.NotEmpty(t, key)
	assert.True(t, strings.HasPrefix(key, "inventory/"))

	w = s.do(http.MethodGet, "/api/reports/exports?prefix=inventory/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Driver  string             `json:"driver"`
		Exports []exportstore.Info `json:"exports"`
	}
	decode(t, w, &list)
	assert.Equal(t, "memory", list.Driver)
	require.Len(t, list.Exports, 1)
	assert.Equal(t, key, list.Exports[0].Key)

	w = s.do(http.MethodGet, "/api/reports/exports/"+key, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, csv, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Checksum-Xxhash64"))

	w = s.do(http.MethodGet, "/api/reports/exports/inventory/nope.csv", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLegacyRouteAliases(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)
	token := s.login("admin")
	invID := s.createInventory(token, "Alice")

	w := s.do(http.MethodPost, "/api/disposal", token, map[string]any{
		"inventoryId": invID, "disposalDate": "2024-06-10", "disposalMethod": "Scrapped", "reason": "Broken",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var d struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &d)

	w = s.do(http.MethodPost, "/api/borrow", token, map[string]string{
		"inventoryId": invID, "borrowerName": "Bob", "expectedReturnDate": "2024-06-17",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperr.CodeDisposalPending, decode(t, w, nil).Code)

	w = s.do(http.MethodPost, "/api/disposal/"+d.ID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/disposal/"+d.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &d)
	assert.Equal(t, string(models.DisposalCompleted), d.Status)
	w = s.do(http.MethodPost, "/api/disposal/"+d.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "completed cannot be cancelled")

	w = s.do(http.MethodGet, "/api/borrow/upcoming", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodGet, "/api/reports/department", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDepartmentsAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("admin", models.RoleAdmin)
	token := s.login("admin")

	w := s.do(http.MethodPost, "/api/departments", token, map[string]string{"name": "Finance"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/departments", token, map[string]string{"name": "Finance"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/departments?active=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var depts []models.Department
	decode(t, w, &depts)
	assert.Len(t, depts, 1)

	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "it_inventory_http_requests_total")

	w = s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
