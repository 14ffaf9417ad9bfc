package http

import (
	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog    *catalog.Service
	LabelStore LabelStore
	Database   *database.Database

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthHandlers   *auth.Handlers

	// CSRF protection is enabled when the secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// "tag" or "genre"
	LabelKind string

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
