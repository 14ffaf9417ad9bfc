package auth

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID  = "user_id"
	SessionKeyLoginAt = "login_at"
	SessionKeyVisits  = "num_visits"
)

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
	store *sqlite3store.SQLite3Store
}

// NewSessionManager creates a session manager backed by the sessions table
// of the catalog database. sqlDB is the *sql.DB underneath GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	store := sqlite3store.New(sqlDB)

	sm := scs.New()
	sm.Store = store
	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm, store: store}, nil
}

// Close stops the background expiry sweep.
func (sm *SessionManager) Close() {
	sm.store.StopCleanup()
}

// NextVisit returns the visit count stored in the session, starting at 1,
// and stores the incremented value for the next request.
func (sm *SessionManager) NextVisit(ctx context.Context) int {
	visits := sm.GetInt(ctx, SessionKeyVisits)
	if visits < 1 {
		visits = 1
	}
	sm.Put(ctx, SessionKeyVisits, visits+1)
	return visits
}

// CreateSession logs the account in. The token is renewed to prevent
// session fixation.
func (sm *SessionManager) CreateSession(ctx context.Context, user *entities.User) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, SessionKeyUserID, int(user.ID))
	sm.Put(ctx, SessionKeyLoginAt, time.Now().Unix())
	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(ctx context.Context) error {
	return sm.Destroy(ctx)
}

// GetUserID returns the logged-in account, 0 when anonymous.
func (sm *SessionManager) GetUserID(ctx context.Context) uint {
	return uint(sm.GetInt(ctx, SessionKeyUserID))
}
