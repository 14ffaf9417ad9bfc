package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// Option tweaks how the database connection is opened.
type Option func(*gorm.Config)

// WithLogLevel sets the gorm query log level.
func WithLogLevel(level logger.LogLevel) Option {
	return func(c *gorm.Config) {
		c.Logger = newGormLogger(level)
	}
}

// gormWriter sends gorm output through the global zerolog logger.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	log.Info().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// NewDatabase opens the SQLite catalog database and migrates the schema.
// Foreign keys are enforced on every connection so that owner deletion
// cascades to books and borrower deletion clears the borrower.
func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	cfg := &gorm.Config{
		Logger:         newGormLogger(logger.Warn),
		TranslateError: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection turns concurrent
	// writers into a queue instead of "database is locked" errors.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Label{},
		&entities.Book{},
		&entities.BookLabel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("Database initialized")

	return &Database{DB: db}, nil
}

func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Stats holds row counts used by the health and metrics endpoints.
type Stats struct {
	Books    int64 `json:"books"`
	Labels   int64 `json:"labels"`
	Accounts int64 `json:"accounts"`
	OnLoan   int64 `json:"on_loan"`
}

// GetStats counts the catalog tables.
func (d *Database) GetStats() (Stats, error) {
	var s Stats
	if err := d.DB.Model(&entities.Book{}).Count(&s.Books).Error; err != nil {
		return s, err
	}
	if err := d.DB.Model(&entities.Label{}).Count(&s.Labels).Error; err != nil {
		return s, err
	}
	if err := d.DB.Model(&entities.User{}).Count(&s.Accounts).Error; err != nil {
		return s, err
	}
	err := d.DB.Model(&entities.Book{}).Where("status = ?", entities.LoanStatusOnLoan).Count(&s.OnLoan).Error
	return s, err
}
