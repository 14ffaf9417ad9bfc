// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(123)
//	page, err := repo.ListBooks(0, 10)
package books

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/catalog/internal/entities"
)

// Default ordering for unqualified book listings.
const defaultOrder = "title ASC, author ASC, id ASC"

// Columns an update may touch. Owner, borrower and status are managed elsewhere.
var editableColumns = []string{"title", "author", "summary", "isbn", "language", "updated_at"}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts the book and its label associations in one transaction.
// A colliding ISBN surfaces as gorm.ErrDuplicatedKey.
func (r *Repository) CreateBook(book *entities.Book, labelIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(book).Error; err != nil {
			return err
		}
		if err := replaceLabels(tx, book.ID, labelIDs); err != nil {
			return err
		}
		return loadLabels(tx, []*entities.Book{book})
	})
}

// UpdateBook writes the editable columns and replaces the label set.
// Returns gorm.ErrRecordNotFound if the book does not exist.
func (r *Repository) UpdateBook(book *entities.Book, labelIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{ID: book.ID}).
			Select(editableColumns).
			Omit(clause.Associations).
			Updates(book)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := replaceLabels(tx, book.ID, labelIDs); err != nil {
			return err
		}
		if err := tx.First(book, book.ID).Error; err != nil {
			return err
		}
		return loadLabels(tx, []*entities.Book{book})
	})
}

// DeleteBook permanently removes a book. Label associations go with it.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetBookByID retrieves a book with its labels.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	if err := loadLabels(r.db, []*entities.Book{&book}); err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks returns a slice of books in default order.
func (r *Repository) ListBooks(offset, limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order(defaultOrder).Offset(offset).Limit(limit).Find(&books).Error
	if err != nil {
		return nil, err
	}
	if err := loadLabelsInto(r.db, books); err != nil {
		return nil, err
	}
	return books, nil
}

// CountBooks returns the number of books in the catalog.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// LatestBooks returns the n most recently created books, newest first.
func (r *Repository) LatestBooks(n int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("created_at DESC, id DESC").Limit(n).Find(&books).Error
	return books, err
}

// ISBNTaken reports whether another book already uses the ISBN.
func (r *Repository) ISBNTaken(isbn string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entities.Book{}).Where("isbn = ?", isbn)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBooksByOwner returns the books owned by an account.
func (r *Repository) GetBooksByOwner(ownerID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("owner_id = ?", ownerID).Order(defaultOrder).Find(&books).Error
	return books, err
}

// GetBooksByBorrower returns the books lent to an account.
func (r *Repository) GetBooksByBorrower(borrowerID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("borrower_id = ?", borrowerID).Order(defaultOrder).Find(&books).Error
	return books, err
}

// ReplaceBookLabels sets the label set of an existing book.
func (r *Repository) ReplaceBookLabels(bookID uint, labelIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return replaceLabels(tx, bookID, labelIDs)
	})
}

// replaceLabels rewrites the association rows of a book, keeping the given
// order as assignment order. Duplicate IDs are collapsed.
func replaceLabels(tx *gorm.DB, bookID uint, labelIDs []uint) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookLabel{}).Error; err != nil {
		return err
	}

	seen := make(map[uint]bool, len(labelIDs))
	rows := make([]entities.BookLabel, 0, len(labelIDs))
	for _, id := range labelIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, entities.BookLabel{BookID: bookID, LabelID: id, Position: len(rows)})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

type labelRow struct {
	BookID    uint
	LabelID   uint
	Name      string
	CreatedAt time.Time
}

func loadLabelsInto(db *gorm.DB, books []entities.Book) error {
	ptrs := make([]*entities.Book, len(books))
	for i := range books {
		ptrs[i] = &books[i]
	}
	return loadLabels(db, ptrs)
}

// loadLabels fills Book.Labels from the association table in assignment order.
func loadLabels(db *gorm.DB, books []*entities.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(books))
	byID := make(map[uint]*entities.Book, len(books))
	for _, b := range books {
		b.Labels = []entities.Label{}
		ids = append(ids, b.ID)
		byID[b.ID] = b
	}

	var rows []labelRow
	err := db.Table("book_labels").
		Select("book_labels.book_id, labels.id AS label_id, labels.name, labels.created_at").
		Joins("JOIN labels ON labels.id = book_labels.label_id").
		Where("book_labels.book_id IN ?", ids).
		Order("book_labels.book_id, book_labels.position, labels.id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		book, ok := byID[row.BookID]
		if !ok {
			return errors.New("label row for unknown book")
		}
		book.Labels = append(book.Labels, entities.Label{
			ID:        row.LabelID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
		})
	}
	return nil
}
