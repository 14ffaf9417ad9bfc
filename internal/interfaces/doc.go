// Package interfaces lists the seams between the catalog packages and holds
// compile-time checks that the concrete implementations satisfy them.
//
// # Data Access
//
//   - catalog.BookStore: book records (internal/database/books)
//   - catalog.LabelLookup: label existence checks (internal/database/labels)
//   - http.LabelStore: label administration (internal/database/labels)
//   - auth.UserRepository: accounts (internal/database/users)
//
// # Sessions, Background Work and Metrics
//
//   - catalog.VisitCounter: the per-session home page counter (auth.SessionManager)
//   - tasks.OrphanLabelsCleaner: orphan label removal (internal/database/labels)
//   - metrics.StatsSource: catalog totals for Prometheus (database.Database)
//
// # Adding a New Database Domain
//
//  1. Create a sub-package: internal/database/loans/
//
//  2. Define the repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the interface where it is consumed and add a check here:
//
//     var _ catalog.LoanStore = (*loans.Repository)(nil)
package interfaces
