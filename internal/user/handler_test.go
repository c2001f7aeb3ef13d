package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"identity-service/internal/auth/token"
	"identity-service/internal/middleware"
	"identity-service/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	store  *store.MemoryStore
	tokens *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	tokens := token.NewService(token.Config{
		AccessSecret:  "access-secret",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    24 * time.Hour,
	})

	router := gin.New()
	group := router.Group("/users")
	group.Use(middleware.GinRequireAuth(middleware.NewAuthMiddleware(tokens)))
	NewHandler(st).RegisterRoutes(group)

	return &testEnv{router: router, store: st, tokens: tokens}
}

func (e *testEnv) createAccount(t *testing.T, email, name string, role store.Role) (*store.Account, string) {
	t.Helper()

	account, err := e.store.CreateAccount(t.Context(), email, name, "hash")
	if err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}
	if role != store.RoleUser {
		e.store.SetRole(account.ID, role)
		account.Role = role
	}

	access, err := e.tokens.IssueAccess(account.ID, role)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	return account, access
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestMeReturnsOwnAccount(t *testing.T) {
	env := newTestEnv(t)
	account, access := env.createAccount(t, "ann@x.com", "Ann", store.RoleUser)

	w := env.do(t, http.MethodGet, "/users/me", access, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != account.ID || body["email"] != "ann@x.com" {
		t.Errorf("body = %v", body)
	}
}

func TestMeWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/users/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMeDeletedAccount(t *testing.T) {
	env := newTestEnv(t)

	// Valid token for an account that does not exist.
	access, _ := env.tokens.IssueAccess("ghost-id", store.RoleUser)
	if w := env.do(t, http.MethodGet, "/users/me", access, nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateMeChangesName(t *testing.T) {
	env := newTestEnv(t)
	account, access := env.createAccount(t, "ann@x.com", "Ann", store.RoleUser)

	w := env.do(t, http.MethodPatch, "/users/me", access, map[string]string{"name": "Ann Renamed"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	stored, _ := env.store.AccountByID(t.Context(), account.ID)
	if stored.Name != "Ann Renamed" {
		t.Errorf("stored name = %q", stored.Name)
	}
}

func TestUpdateMeRequiresName(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.createAccount(t, "ann@x.com", "Ann", store.RoleUser)

	if w := env.do(t, http.MethodPatch, "/users/me", access, map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "ann@x.com", "Ann", store.RoleUser)
	_, userAccess := env.createAccount(t, "bob@x.com", "Bob", store.RoleUser)
	_, adminAccess := env.createAccount(t, "root@x.com", "Root", store.RoleAdmin)

	if w := env.do(t, http.MethodGet, "/users", userAccess, nil); w.Code != http.StatusForbidden {
		t.Errorf("user role: status = %d, want 403", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/users", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", w.Code)
	}

	w := env.do(t, http.MethodGet, "/users", adminAccess, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, body = %s", w.Code, w.Body.String())
	}

	var accounts []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &accounts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(accounts) != 3 {
		t.Errorf("listed %d accounts, want 3", len(accounts))
	}
}
