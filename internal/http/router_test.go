package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/config"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "router.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     1000,
		RateBurst:   1000,
		CORS:        config.CORSConfig{AllowedOrigins: nil}, // allow-all branch
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
		Auth: config.AuthConfig{
			JWTSecret: "router-test-secret",
			TokenTTL:  time.Hour,
		},
		Chat: config.ChatConfig{
			EmployeePIN:   "1234",
			AdminUserPIN:  "5678",
			MaxAttempts:   3,
			BlockDuration: 10 * time.Minute,
		},
		MaxAttachmentBytes: 5 << 20,
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), testConfig())
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account with the given role and returns its token.
func registerAndLogin(t *testing.T, r *gin.Engine, name, email, role string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": email, "password": "s3cret-pass", "role": role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s = %d: %s", role, w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": email, "password": "s3cret-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s = %d: %s", role, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login response %q: %v", w.Body.String(), err)
	}
	return resp.Token
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r := newTestRouter(t)

	// /health works
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = doJSON(t, r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = doJSON(t, r, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = doJSON(t, r, http.MethodPost, "/health", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"http://example.com"}
	RegisterRoutes(r, newTestDB(t), cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestAuthFlow_RegisterLoginMe(t *testing.T) {
	r := newTestRouter(t)

	// Protected endpoints reject missing and garbage tokens.
	if w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("GET /auth/me without token = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("GET /auth/me with bad token = %d", w.Code)
	}

	token := registerAndLogin(t, r, "Jonas", "jonas@example.com", "USER")
	w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /auth/me = %d: %s", w.Code, w.Body.String())
	}
	var me struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil || me.Name != "Jonas" || me.Role != "USER" {
		t.Fatalf("me = %s (%v)", w.Body.String(), err)
	}
}

func TestRoleGuards_RequestsLifecycle(t *testing.T) {
	r := newTestRouter(t)
	userTok := registerAndLogin(t, r, "Jonas", "jonas@example.com", "USER")
	adminTok := registerAndLogin(t, r, "Lina", "lina@example.com", "ADMIN")

	// Only end users submit requests.
	body := gin.H{"title": "Budget impact model", "description": "Q3 submission"}
	if w := doJSON(t, r, http.MethodPost, "/api/v1/requests", adminTok, body); w.Code != http.StatusForbidden {
		t.Fatalf("admin POST /requests = %d", w.Code)
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/requests", userTok, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("user POST /requests = %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("create response %q: %v", w.Body.String(), err)
	}
	if created.Status != "PENDING" {
		t.Fatalf("new request status = %q", created.Status)
	}

	// Status moves are admin-only.
	statusPath := fmt.Sprintf("/api/v1/requests/%s/status", created.ID)
	if w := doJSON(t, r, http.MethodPatch, statusPath, userTok, gin.H{"status": "COMPLETED"}); w.Code != http.StatusForbidden {
		t.Fatalf("user PATCH status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPatch, statusPath, adminTok, gin.H{"status": "COMPLETED"}); w.Code != http.StatusNoContent {
		t.Fatalf("admin PATCH status = %d: %s", w.Code, w.Body.String())
	}

	// The owner still sees the updated request.
	w = doJSON(t, r, http.MethodGet, "/api/v1/requests/"+created.ID, userTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("user GET request = %d", w.Code)
	}
	var got struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got.Status != "COMPLETED" {
		t.Fatalf("request after move = %s (%v)", w.Body.String(), err)
	}

	// Task endpoints are closed to both of these roles.
	if w := doJSON(t, r, http.MethodGet, "/api/v1/tasks", userTok, nil); w.Code != http.StatusForbidden {
		t.Fatalf("user GET /tasks = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/analytics/overview", userTok, nil); w.Code != http.StatusForbidden {
		t.Fatalf("user GET /analytics/overview = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/analytics/overview", adminTok, nil); w.Code != http.StatusOK {
		t.Fatalf("admin GET /analytics/overview = %d: %s", w.Code, w.Body.String())
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}
