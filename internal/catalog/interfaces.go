package catalog

import (
	"context"

	"github.com/mrlokans/catalog/internal/entities"
)

// BookReader provides read-only access to books.
type BookReader interface {
	GetBookByID(id uint) (*entities.Book, error)
	ListBooks(offset, limit int) ([]entities.Book, error)
	CountBooks() (int64, error)
	LatestBooks(n int) ([]entities.Book, error)
}

// BookWriter persists book mutations.
type BookWriter interface {
	CreateBook(book *entities.Book, labelIDs []uint) error
	UpdateBook(book *entities.Book, labelIDs []uint) error
	DeleteBook(id uint) error
	ISBNTaken(isbn string, excludeID uint) (bool, error)
}

// BookStore combines read and write access.
type BookStore interface {
	BookReader
	BookWriter
}

// LabelLookup resolves label IDs submitted with a form.
type LabelLookup interface {
	GetLabelsByIDs(ids []uint) ([]entities.Label, error)
}

// VisitCounter is the per-session get-then-increment counter. NextVisit
// returns the current count (1 on the first call) and stores count+1.
type VisitCounter interface {
	NextVisit(ctx context.Context) int
}
