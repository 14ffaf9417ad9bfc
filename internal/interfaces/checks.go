package interfaces

// Compile-time checks that concrete types satisfy the interfaces their
// consumers declare.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/labels"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/metrics"
	"github.com/mrlokans/catalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ catalog.BookStore = (*books.Repository)(nil)
var _ catalog.LabelLookup = (*labels.Repository)(nil)
var _ http.LabelStore = (*labels.Repository)(nil)
var _ auth.UserRepository = (*users.Repository)(nil)

// =============================================================================
// Sessions, Background Work and Metrics
// =============================================================================

var _ catalog.VisitCounter = (*auth.SessionManager)(nil)
var _ tasks.OrphanLabelsCleaner = (*labels.Repository)(nil)
var _ metrics.StatsSource = (*database.Database)(nil)
