package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/entities"
)

// Handlers serves login, logout and the current-account endpoints.
type Handlers struct {
	service        *Service
	sessionManager *SessionManager
}

func NewHandlers(service *Service, sessionManager *SessionManager) *Handlers {
	return &Handlers{service: service, sessionManager: sessionManager}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	User         *entities.User `json:"user"`
	AuthType     AuthType       `json:"auth_type"`
	Capabilities []Capability   `json:"capabilities"`
}

// Login handles POST /login.
func (h *Handlers) Login(c *gin.Context) {
	if !h.service.IsAuthEnabled() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authentication is disabled"})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err})
		return
	}

	user, err := h.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidPassword) {
			log.Info().Str("username", req.Username).Msg("Failed login attempt")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		log.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if err := h.sessionManager.CreateSession(c.Request.Context(), user); err != nil {
		log.Error().Err(err).Msg("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("User logged in")
	c.JSON(http.StatusOK, AccountResponse{
		User:         user,
		AuthType:     AuthTypeSession,
		Capabilities: Capabilities(user.Role),
	})
}

// Logout handles POST /logout.
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.sessionManager.DestroySession(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to destroy session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *Handlers) Me(c *gin.Context) {
	user := GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrAuthRequired.Error()})
		return
	}

	caps := Capabilities(user.Role)
	if !h.service.IsAuthEnabled() {
		caps = []Capability{CapManageBooks, CapManageAccounts}
	}
	c.JSON(http.StatusOK, AccountResponse{
		User:         user,
		AuthType:     GetAuthType(c),
		Capabilities: caps,
	})
}

// CSRFToken handles GET /auth/csrf. The token is also sent as a header on
// every safe request.
func (h *Handlers) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": GetCSRFToken(c)})
}
