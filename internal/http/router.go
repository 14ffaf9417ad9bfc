package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("request_id", GetRequestID(c)).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal"})
	}))
	router.Use(MetricsMiddleware())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before the session so that the session context survives
	// CSRF's request replacement
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// The home view counts visits in the session, so sessions are always on
	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewBooksController(cfg.Catalog, cfg.SessionManager)
	adminBooks := NewAdminBooksController(cfg.Catalog)
	accounts := NewAccountsController(cfg.AuthService)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth endpoints
	if cfg.AuthHandlers != nil {
		router.POST("/login", cfg.AuthHandlers.Login)
		router.POST("/logout", cfg.AuthHandlers.Logout)
		router.GET("/auth/me", cfg.AuthHandlers.Me)
		router.GET("/auth/csrf", cfg.AuthHandlers.CSRFToken)
	}

	// Public catalog views
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog/")
	})
	router.GET("/catalog/", books.Home)
	router.GET(catalog.BooksURL, books.List)
	router.GET("/catalog/book/:id", books.Detail)
	router.GET("/catalog/languages", books.Languages)

	// Book mutations
	manageBooks := cfg.AuthMiddleware.RequireCapability(auth.CapManageBooks)
	router.POST("/catalog/book/create/", manageBooks, adminBooks.Create)
	router.POST("/catalog/book/:id/update/", manageBooks, adminBooks.Update)
	router.PUT("/catalog/book/:id", manageBooks, adminBooks.Update)
	router.POST("/catalog/book/:id/delete/", manageBooks, adminBooks.Delete)
	router.DELETE("/catalog/book/:id", manageBooks, adminBooks.Delete)

	// Admin catalog
	admin := router.Group("/admin/catalog", manageBooks)
	{
		admin.GET("/books", adminBooks.List)

		if cfg.LabelStore != nil {
			labels := NewLabelsController(cfg.LabelStore, cfg.TaskClient, cfg.LabelKind)
			admin.GET("/labels", labels.List)
			admin.POST("/labels", labels.Create)
			admin.POST("/labels/cleanup", labels.CleanupOrphans)
			admin.GET("/labels/:id", labels.Get)
			admin.DELETE("/labels/:id", labels.Delete)
			admin.GET("/labels/:id/books", labels.Books)
			admin.POST("/books/:id/labels", labels.AddToBook)
			admin.DELETE("/books/:id/labels/:labelId", labels.RemoveFromBook)
		}
	}

	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/admin/tasks/:id", manageBooks, tasksController.GetTaskStatus)
	}

	// Account administration
	adminAccounts := router.Group("/admin/accounts", cfg.AuthMiddleware.RequireCapability(auth.CapManageAccounts))
	{
		adminAccounts.GET("", accounts.List)
		adminAccounts.POST("", accounts.Create)
		adminAccounts.DELETE("/:id", accounts.Delete)
	}

	return router
}
