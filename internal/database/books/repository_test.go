package books

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, *entities.User) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "books.db")
	db, err := database.NewDatabase(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	owner := &entities.User{Username: "owner", Email: "owner@example.com", Role: entities.UserRoleLibrarian}
	require.NoError(t, db.DB.Create(owner).Error)

	return NewRepository(db.DB), db.DB, owner
}

func createLabel(t *testing.T, db *gorm.DB, name string) entities.Label {
	t.Helper()
	label := entities.Label{Name: name}
	require.NoError(t, db.Create(&label).Error)
	return label
}

func strPtr(s string) *string {
	return &s
}

func TestRepository_CreateBook(t *testing.T) {
	repo, db, owner := setupTestDB(t)

	scifi := createLabel(t, db, "Science Fiction")
	classic := createLabel(t, db, "Classic")

	book := &entities.Book{
		Title:    "Dune",
		Author:   "Frank Herbert",
		ISBN:     strPtr("9780441172719"),
		Language: strPtr("en"),
		OwnerID:  owner.ID,
	}
	err := repo.CreateBook(book, []uint{classic.ID, scifi.ID})

	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, entities.LoanStatusAvailable, book.Status)
	require.Len(t, book.Labels, 2)
	assert.Equal(t, "Classic", book.Labels[0].Name)
	assert.Equal(t, "Science Fiction", book.Labels[1].Name)
	assert.False(t, book.CreatedAt.IsZero())
}

func TestRepository_CreateBook_DuplicateISBN(t *testing.T) {
	repo, _, owner := setupTestDB(t)

	first := &entities.Book{Title: "A", Author: "X", ISBN: strPtr("1234567890123"), OwnerID: owner.ID}
	require.NoError(t, repo.CreateBook(first, nil))

	second := &entities.Book{Title: "B", Author: "Y", ISBN: strPtr("1234567890123"), OwnerID: owner.ID}
	err := repo.CreateBook(second, nil)

	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRepository_CreateBook_NullISBNsDoNotCollide(t *testing.T) {
	repo, _, owner := setupTestDB(t)

	require.NoError(t, repo.CreateBook(&entities.Book{Title: "A", Author: "X", OwnerID: owner.ID}, nil))
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "B", Author: "Y", OwnerID: owner.ID}, nil))

	count, err := repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_UpdateBook(t *testing.T) {
	repo, db, owner := setupTestDB(t)

	first := createLabel(t, db, "First")
	second := createLabel(t, db, "Second")

	book := &entities.Book{
		Title:    "Old",
		Author:   "Someone",
		Summary:  strPtr("old summary"),
		Language: strPtr("en"),
		OwnerID:  owner.ID,
		Status:   entities.LoanStatusOnLoan,
	}
	require.NoError(t, repo.CreateBook(book, []uint{first.ID}))

	update := &entities.Book{
		ID:      book.ID,
		Title:   "New",
		Author:  "Someone Else",
		Summary: nil,
	}
	require.NoError(t, repo.UpdateBook(update, []uint{second.ID}))

	stored, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Title)
	assert.Equal(t, "Someone Else", stored.Author)
	assert.Nil(t, stored.Summary)
	assert.Nil(t, stored.Language)
	// Not part of the editable field set
	assert.Equal(t, owner.ID, stored.OwnerID)
	assert.Equal(t, entities.LoanStatusOnLoan, stored.Status)
	require.Len(t, stored.Labels, 1)
	assert.Equal(t, "Second", stored.Labels[0].Name)
}

func TestRepository_UpdateBook_NotFound(t *testing.T) {
	repo, _, _ := setupTestDB(t)

	err := repo.UpdateBook(&entities.Book{ID: 999, Title: "X", Author: "Y"}, nil)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteBook(t *testing.T) {
	repo, db, owner := setupTestDB(t)

	label := createLabel(t, db, "Poetry")
	book := &entities.Book{Title: "Odes", Author: "Keats", OwnerID: owner.ID}
	require.NoError(t, repo.CreateBook(book, []uint{label.ID}))

	require.NoError(t, repo.DeleteBook(book.ID))

	_, err := repo.GetBookByID(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var links int64
	require.NoError(t, db.Model(&entities.BookLabel{}).Count(&links).Error)
	assert.Zero(t, links)

	assert.ErrorIs(t, repo.DeleteBook(book.ID), gorm.ErrRecordNotFound)
}

func TestRepository_ListBooks_DefaultOrder(t *testing.T) {
	repo, _, owner := setupTestDB(t)

	for _, b := range []struct{ title, author string }{
		{"Persuasion", "Jane Austen"},
		{"Emma", "Jane Austen"},
		{"Emma", "Anonymous"},
	} {
		require.NoError(t, repo.CreateBook(&entities.Book{Title: b.title, Author: b.author, OwnerID: owner.ID}, nil))
	}

	books, err := repo.ListBooks(0, 10)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Anonymous", books[0].Author)
	assert.Equal(t, "Jane Austen", books[1].Author)
	assert.Equal(t, "Persuasion", books[2].Title)

	page, err := repo.ListBooks(2, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Persuasion", page[0].Title)
}

func TestRepository_LatestBooks(t *testing.T) {
	repo, _, owner := setupTestDB(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 6; i++ {
		book := &entities.Book{
			Title:     fmt.Sprintf("Book %d", i),
			Author:    "Author",
			OwnerID:   owner.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.CreateBook(book, nil))
	}

	latest, err := repo.LatestBooks(4)
	require.NoError(t, err)
	require.Len(t, latest, 4)
	assert.Equal(t, "Book 6", latest[0].Title)
	assert.Equal(t, "Book 5", latest[1].Title)
	assert.Equal(t, "Book 4", latest[2].Title)
	assert.Equal(t, "Book 3", latest[3].Title)
}

func TestRepository_ISBNTaken(t *testing.T) {
	repo, _, owner := setupTestDB(t)

	book := &entities.Book{Title: "A", Author: "X", ISBN: strPtr("1234567890123"), OwnerID: owner.ID}
	require.NoError(t, repo.CreateBook(book, nil))

	taken, err := repo.ISBNTaken("1234567890123", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ISBNTaken("1234567890123", book.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a book does not collide with itself")
}

func TestRepository_GetBooksByOwnerAndBorrower(t *testing.T) {
	repo, db, owner := setupTestDB(t)

	borrower := &entities.User{Username: "reader", Email: "reader@example.com", Role: entities.UserRoleMember}
	require.NoError(t, db.Create(borrower).Error)

	lent := &entities.Book{Title: "Lent", Author: "X", OwnerID: owner.ID, BorrowerID: &borrower.ID, Status: entities.LoanStatusOnLoan}
	require.NoError(t, repo.CreateBook(lent, nil))
	require.NoError(t, repo.CreateBook(&entities.Book{Title: "Home", Author: "Y", OwnerID: owner.ID}, nil))

	owned, err := repo.GetBooksByOwner(owner.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	borrowed, err := repo.GetBooksByBorrower(borrower.ID)
	require.NoError(t, err)
	require.Len(t, borrowed, 1)
	assert.Equal(t, "Lent", borrowed[0].Title)
}

func TestRepository_ReplaceBookLabels(t *testing.T) {
	repo, db, owner := setupTestDB(t)

	a := createLabel(t, db, "A")
	b := createLabel(t, db, "B")

	book := &entities.Book{Title: "T", Author: "A", OwnerID: owner.ID}
	require.NoError(t, repo.CreateBook(book, []uint{a.ID}))

	require.NoError(t, repo.ReplaceBookLabels(book.ID, []uint{b.ID, a.ID, b.ID}))

	stored, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	require.Len(t, stored.Labels, 2)
	assert.Equal(t, "B", stored.Labels[0].Name)
	assert.Equal(t, "A", stored.Labels[1].Name)

	assert.ErrorIs(t, repo.ReplaceBookLabels(999, nil), gorm.ErrRecordNotFound)
}
