package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

func protectedRouter(m *Middleware, sm *SessionManager, h *Handlers) *gin.Engine {
	router := gin.New()
	if sm != nil {
		router.Use(sm.SessionLoadSave())
	}
	router.Use(m.Handler())
	if h != nil {
		router.POST("/login", h.Login)
		router.GET("/auth/me", h.Me)
	}
	router.POST("/books", m.RequireCapability(CapManageBooks), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	router.POST("/accounts", m.RequireCapability(CapManageAccounts), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	router.GET("/private", m.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, GetUser(c).Username)
	})
	return router
}

func TestMiddleware_NoneModeUsesDefaultUser(t *testing.T) {
	svc, _ := setupService(t, config.AuthModeNone)
	defaultUser, err := svc.EnsureDefaultUser()
	require.NoError(t, err)

	m := NewMiddleware(svc, nil, testAuthConfig(config.AuthModeNone), defaultUser)
	router := protectedRouter(m, nil, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/books", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/accounts", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, "librarian", rr.Body.String())
}

func login(t *testing.T, router *gin.Engine, username string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": testPassword})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return sessionCookie(t, rr)
}

func TestMiddleware_LocalModeCapabilities(t *testing.T) {
	svc, db := setupService(t, config.AuthModeLocal)
	sm := setupSessions(t, db)
	cfg := testAuthConfig(config.AuthModeLocal)

	for _, u := range []struct {
		name string
		role entities.UserRole
	}{
		{"admin", entities.UserRoleAdmin},
		{"libby", entities.UserRoleLibrarian},
		{"member", entities.UserRoleMember},
	} {
		_, err := svc.CreateUser(NewUserInput{Username: u.name, Email: u.name + "@example.com", Password: testPassword, Role: u.role})
		require.NoError(t, err)
	}

	router := protectedRouter(NewMiddleware(svc, sm, cfg, nil), sm, NewHandlers(svc, sm))

	do := func(path string, cookie *http.Cookie) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do("/books", nil))

	member := login(t, router, "member")
	assert.Equal(t, http.StatusForbidden, do("/books", member))
	assert.Equal(t, http.StatusForbidden, do("/accounts", member))

	librarian := login(t, router, "libby")
	assert.Equal(t, http.StatusCreated, do("/books", librarian))
	assert.Equal(t, http.StatusForbidden, do("/accounts", librarian))

	admin := login(t, router, "admin")
	assert.Equal(t, http.StatusCreated, do("/books", admin))
	assert.Equal(t, http.StatusCreated, do("/accounts", admin))
}

func TestMiddleware_LocalModeAnonymous(t *testing.T) {
	svc, db := setupService(t, config.AuthModeLocal)
	sm := setupSessions(t, db)
	router := protectedRouter(NewMiddleware(svc, sm, testAuthConfig(config.AuthModeLocal), nil), sm, NewHandlers(svc, sm))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandlers_LoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupService(t, config.AuthModeLocal)
	sm := setupSessions(t, db)
	_, err := svc.CreateUser(NewUserInput{Username: "alice", Email: "alice@example.com", Password: testPassword, Role: entities.UserRoleMember})
	require.NoError(t, err)

	router := protectedRouter(NewMiddleware(svc, sm, testAuthConfig(config.AuthModeLocal), nil), sm, NewHandlers(svc, sm))

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "not-the-password"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"username":""}`)))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlers_MeReportsCapabilities(t *testing.T) {
	svc, db := setupService(t, config.AuthModeLocal)
	sm := setupSessions(t, db)
	_, err := svc.CreateUser(NewUserInput{Username: "libby", Email: "libby@example.com", Password: testPassword, Role: entities.UserRoleLibrarian})
	require.NoError(t, err)

	router := protectedRouter(NewMiddleware(svc, sm, testAuthConfig(config.AuthModeLocal), nil), sm, NewHandlers(svc, sm))
	cookie := login(t, router, "libby")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp AccountResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "libby", resp.User.Username)
	assert.Equal(t, AuthTypeSession, resp.AuthType)
	assert.Equal(t, []Capability{CapManageBooks}, resp.Capabilities)
}
