// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, foreign keys, migrations
//	├── books/           # Book CRUD, ordering, pagination, latest books
//	├── labels/          # Labels and the book_labels association table
//	└── users/           # Accounts (owners and borrowers)
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./catalog.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	labelsRepo := labels.NewRepository(db.DB)
//	usersRepo := users.NewRepository(db.DB)
//
// # Referential actions
//
// Deletes are hard deletes. The schema carries the referential actions so
// that application code never walks dependents itself:
//
//   - books.owner_id    -> users.id  ON DELETE CASCADE
//   - books.borrower_id -> users.id  ON DELETE SET NULL
//   - book_labels.*     -> books/labels ON DELETE CASCADE
//
// SQLite only honours these when foreign keys are switched on, which
// NewDatabase does for every pooled connection through the DSN.
package database
