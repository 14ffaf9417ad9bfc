package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/labels"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t           *testing.T
	db          *database.Database
	router      *gin.Engine
	catalog     *catalog.Service
	labels      *labels.Repository
	authService *auth.Service
	defaultUser *entities.User
	cookies     []*http.Cookie
}

func setupServer(t *testing.T, mode config.AuthMode) *testServer {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"), database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	authCfg := config.Auth{
		Mode:            mode,
		SessionLifetime: time.Hour,
		BcryptCost:      bcrypt.MinCost,
		DefaultUsername: "librarian",
		DefaultEmail:    "librarian@localhost.localdomain",
	}

	authService := auth.NewService(users.NewRepository(db.DB), authCfg)
	var defaultUser *entities.User
	if mode == config.AuthModeNone {
		defaultUser, err = authService.EnsureDefaultUser()
		require.NoError(t, err)
	}

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessions, err := auth.NewSessionManager(sqlDB, authCfg)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)

	labelRepo := labels.NewRepository(db.DB)
	svc := catalog.NewService(books.NewRepository(db.DB), labelRepo, 10)

	router := NewRouter(RouterConfig{
		Catalog:        svc,
		LabelStore:     labelRepo,
		Database:       db,
		AuthService:    authService,
		SessionManager: sessions,
		AuthMiddleware: auth.NewMiddleware(authService, sessions, authCfg, defaultUser),
		AuthHandlers:   auth.NewHandlers(authService, sessions),
		LabelKind:      "genre",
		Version:        "test",
	})

	return &testServer{
		t:           t,
		db:          db,
		router:      router,
		catalog:     svc,
		labels:      labelRepo,
		authService: authService,
		defaultUser: defaultUser,
	}
}

// do sends a request, carrying cookies between calls like a browser would.
func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	if set := rr.Result().Cookies(); len(set) > 0 {
		s.cookies = set
	}
	return rr
}

func (s *testServer) createAccount(username string, role entities.UserRole) *entities.User {
	s.t.Helper()
	user, err := s.authService.CreateUser(auth.NewUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct-horse-battery",
		Role:     role,
	})
	require.NoError(s.t, err)
	return user
}

func (s *testServer) login(username string) {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/login", gin.H{"username": username, "password": "correct-horse-battery"})
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())
}

func (s *testServer) createBook(title string, owner *entities.User) *entities.Book {
	s.t.Helper()
	book, err := s.catalog.CreateBook(catalog.BookForm{Title: title, Author: "Author of " + title}, owner)
	require.NoError(s.t, err)
	return book
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
