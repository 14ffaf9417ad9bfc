package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

// Context keys for account data
const (
	ContextKeyUser     = "auth_user"
	ContextKeyAuthType = "auth_type"
)

// AuthType indicates how the account was identified
type AuthType string

const (
	AuthTypeNone      AuthType = "none"
	AuthTypeSession   AuthType = "session"
	AuthTypeAnonymous AuthType = "anonymous"
)

// Middleware identifies the account behind each request and gates routes
// on capabilities.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
	defaultUser    *entities.User
}

// NewMiddleware creates the authentication middleware. defaultUser is the
// account every request acts as when authentication is disabled.
func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth, defaultUser *entities.User) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
		defaultUser:    defaultUser,
	}
}

// Handler returns a Gin middleware that attaches the current account to
// the context. Anonymous requests pass through, protected routes reject
// them with RequireAuth or RequireCapability.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode == config.AuthModeNone {
		return func(c *gin.Context) {
			setUserContext(c, m.defaultUser, AuthTypeNone)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if user := m.trySessionAuth(c); user != nil {
			setUserContext(c, user, AuthTypeSession)
		} else {
			c.Set(ContextKeyAuthType, AuthTypeAnonymous)
		}
		c.Next()
	}
}

func (m *Middleware) trySessionAuth(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}

	userID := m.sessionManager.GetUserID(c.Request.Context())
	if userID == 0 {
		return nil
	}

	user, err := m.service.GetUserByID(userID)
	if err != nil {
		// Account deleted while logged in
		log.Debug().Err(err).Uint("user_id", userID).Msg("Dropping stale session")
		return nil
	}
	return user
}

func setUserContext(c *gin.Context, user *entities.User, authType AuthType) {
	c.Set(ContextKeyUser, user)
	c.Set(ContextKeyAuthType, authType)
}

// RequireAuth rejects anonymous requests with 401.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ErrAuthRequired.Error(),
			})
			return
		}
		c.Next()
	}
}

// RequireCapability rejects requests whose account lacks the capability
// before the handler runs: 401 for anonymous requests, 403 otherwise.
func (m *Middleware) RequireCapability(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil && m.config.Mode == config.AuthModeLocal {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ErrAuthRequired.Error(),
			})
			return
		}

		if err := m.service.Require(user, capability); err != nil {
			log.Info().
				Str("capability", string(capability)).
				Str("path", c.Request.URL.Path).
				Uint("user_id", GetUserID(c)).
				Msg("Permission denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.Next()
	}
}

// GetUser returns the account attached to the request, nil when anonymous.
func GetUser(c *gin.Context) *entities.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID returns the ID of the current account, 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	if user := GetUser(c); user != nil {
		return user.ID
	}
	return 0
}

// GetAuthType retrieves how the request was identified.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeAnonymous
}
