package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./catalog.db"

	// DefaultPageSize is the number of books on one page of the book list
	DefaultPageSize = 10
)
