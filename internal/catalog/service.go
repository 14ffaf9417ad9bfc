package catalog

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/entities"
)

const (
	msgISBNTaken     = "book with this ISBN already exists"
	msgOwnerRequired = "this field is required"
)

// Service implements the catalog views and the admin mutations.
type Service struct {
	books    BookStore
	labels   LabelLookup
	pageSize int
}

// NewService creates a catalog service. A non-positive page size falls back
// to ten books per page.
func NewService(books BookStore, labels LabelLookup, pageSize int) *Service {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Service{books: books, labels: labels, pageSize: pageSize}
}

// PageSize returns the configured list page size.
func (s *Service) PageSize() int {
	return s.pageSize
}

// BookPage is one page of the book listing.
type BookPage struct {
	Pagination
	Books []entities.Book `json:"books"`
}

// ListBooks returns a page of books in default order.
func (s *Service) ListBooks(pageParam string) (*BookPage, error) {
	count, err := s.books.CountBooks()
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	p, err := Paginate(pageParam, count, s.pageSize)
	if err != nil {
		return nil, err
	}

	books, err := s.books.ListBooks(p.Offset(), p.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []entities.Book{}
	}
	return &BookPage{Pagination: p, Books: books}, nil
}

// GetBook returns a single book with its labels.
func (s *Service) GetBook(id uint) (*entities.Book, error) {
	book, err := s.books.GetBookByID(id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return book, nil
}

// CreateBook validates the form and stores a new book owned by owner.
func (s *Service) CreateBook(form BookForm, owner *entities.User) (*entities.Book, error) {
	if owner == nil || owner.ID == 0 {
		return nil, newFieldError("owner", msgOwnerRequired)
	}

	book, labelIDs, err := s.prepare(form, 0)
	if err != nil {
		return nil, err
	}
	book.OwnerID = owner.ID
	book.Status = entities.LoanStatusAvailable

	if err := s.books.CreateBook(book, labelIDs); err != nil {
		return nil, translateWriteError(err)
	}

	log.Info().Uint("book_id", book.ID).Uint("owner_id", owner.ID).Str("title", book.Title).Msg("Book created")
	return book, nil
}

// UpdateBook validates the form and rewrites the editable fields of a book.
func (s *Service) UpdateBook(id uint, form BookForm) (*entities.Book, error) {
	if _, err := s.books.GetBookByID(id); err != nil {
		return nil, translateNotFound(err)
	}

	book, labelIDs, err := s.prepare(form, id)
	if err != nil {
		return nil, err
	}
	book.ID = id

	if err := s.books.UpdateBook(book, labelIDs); err != nil {
		return nil, translateWriteError(err)
	}

	log.Info().Uint("book_id", id).Msg("Book updated")

	updated, err := s.books.GetBookByID(id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return updated, nil
}

// DeleteBook removes a book permanently.
func (s *Service) DeleteBook(id uint) error {
	if err := s.books.DeleteBook(id); err != nil {
		return translateNotFound(err)
	}
	log.Info().Uint("book_id", id).Msg("Book deleted")
	return nil
}

// AdminBookRow is the tabular admin projection of a book.
type AdminBookRow struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	DisplayLabels string `json:"display_labels"`
}

// AdminBookPage is one page of the admin book table.
type AdminBookPage struct {
	Pagination
	Rows []AdminBookRow `json:"rows"`
}

// AdminListBooks returns the admin table projection for a page of books.
func (s *Service) AdminListBooks(pageParam string) (*AdminBookPage, error) {
	page, err := s.ListBooks(pageParam)
	if err != nil {
		return nil, err
	}
	rows := make([]AdminBookRow, len(page.Books))
	for i := range page.Books {
		b := &page.Books[i]
		rows[i] = AdminBookRow{
			ID:            b.ID,
			Title:         b.Title,
			Author:        b.Author,
			DisplayLabels: DisplayLabels(b),
		}
	}
	return &AdminBookPage{Pagination: page.Pagination, Rows: rows}, nil
}

// prepare validates a form and resolves its labels. excludeID is the book
// being edited, zero for a new one.
func (s *Service) prepare(form BookForm, excludeID uint) (*entities.Book, []uint, error) {
	form.Normalize()
	if err := fromValidation(form.Validate()); err != nil {
		return nil, nil, err
	}

	labelIDs, err := s.resolveLabels(form.Labels)
	if err != nil {
		return nil, nil, err
	}

	if form.ISBN != "" {
		taken, err := s.books.ISBNTaken(form.ISBN, excludeID)
		if err != nil {
			return nil, nil, fmt.Errorf("check isbn: %w", err)
		}
		if taken {
			return nil, nil, newFieldError("isbn", msgISBNTaken)
		}
	}

	return form.Book(), labelIDs, nil
}

// resolveLabels checks every submitted label exists and returns the
// deduplicated IDs in submission order.
func (s *Service) resolveLabels(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := s.labels.GetLabelsByIDs(unique)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	known := make(map[uint]bool, len(found))
	for _, l := range found {
		known[l.ID] = true
	}
	for _, id := range unique {
		if !known[id] {
			return nil, newFieldError("labels", fmt.Sprintf("label %d does not exist", id))
		}
	}
	return unique, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// translateWriteError maps store constraint failures. The unique ISBN index
// is the only unique constraint a book write can hit.
func translateWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return newFieldError("isbn", msgISBNTaken)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	}
	return err
}
