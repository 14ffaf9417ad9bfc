// Package auth provides authentication and authorization for the catalog.
//
// It supports two authentication modes:
//   - "none": No login (default). Every request acts as the default account,
//     which is created on startup and holds every capability.
//   - "local": Accounts stored in the users table, session cookie login.
//
// Authorization is capability based. Each role maps to a fixed set of
// capabilities and handlers are gated with RequireCapability:
//
//	admin := router.Group("/admin", authMiddleware.RequireCapability(auth.CapManageBooks))
//
// # Configuration
//
//	AUTH_MODE=none                 # Default
//	AUTH_MODE=local                # Requires accounts and login
//	AUTH_SESSION_SECRET=<hex>      # CSRF key, generated when empty
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true
//	AUTH_DEFAULT_USERNAME=librarian
//
// Sessions are always enabled because the home view keeps a per-session
// visit counter.
package auth
