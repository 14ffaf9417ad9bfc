package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "correct-horse-battery"

func testAuthConfig(mode config.AuthMode) config.Auth {
	return config.Auth{
		Mode:            mode,
		SessionLifetime: time.Hour,
		BcryptCost:      bcrypt.MinCost,
		SecureCookies:   false,
		DefaultUsername: "librarian",
		DefaultEmail:    "librarian@localhost.localdomain",
	}
}

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "auth.db"), database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupService(t *testing.T, mode config.AuthMode) (*Service, *database.Database) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(users.NewRepository(db.DB), testAuthConfig(mode)), db
}

func setupSessions(t *testing.T, db *database.Database) *SessionManager {
	t.Helper()
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sm, err := NewSessionManager(sqlDB, testAuthConfig(config.AuthModeLocal))
	require.NoError(t, err)
	t.Cleanup(sm.Close)
	return sm
}
