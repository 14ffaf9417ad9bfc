package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/labels"
	"github.com/mrlokans/catalog/internal/entities"
)

type testEnv struct {
	db      *database.Database
	books   *books.Repository
	labels  *labels.Repository
	service *Service
	owner   *entities.User
}

func setupService(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"), database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	owner := &entities.User{Username: "librarian", Email: "librarian@example.com", Role: entities.UserRoleLibrarian}
	require.NoError(t, db.DB.Create(owner).Error)

	bookRepo := books.NewRepository(db.DB)
	labelRepo := labels.NewRepository(db.DB)

	return &testEnv{
		db:      db,
		books:   bookRepo,
		labels:  labelRepo,
		service: NewService(bookRepo, labelRepo, 10),
		owner:   owner,
	}
}

func (e *testEnv) createBook(t *testing.T, title string) *entities.Book {
	t.Helper()
	book, err := e.service.CreateBook(BookForm{Title: title, Author: "Author of " + title}, e.owner)
	require.NoError(t, err)
	return book
}

func strPtr(s string) *string {
	return &s
}

type fakeCounter struct {
	next int
}

func (c *fakeCounter) NextVisit(context.Context) int {
	if c.next == 0 {
		c.next = 1
	}
	n := c.next
	c.next++
	return n
}
