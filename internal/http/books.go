package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/metrics"
)

// BooksController serves the public catalog views.
type BooksController struct {
	catalog *catalog.Service
	visits  catalog.VisitCounter
}

func NewBooksController(svc *catalog.Service, visits catalog.VisitCounter) *BooksController {
	return &BooksController{catalog: svc, visits: visits}
}

// BookResponse is a book with its derived display fields.
type BookResponse struct {
	entities.Book
	URL           string `json:"url"`
	LanguageName  string `json:"language_name,omitempty"`
	StatusDisplay string `json:"status_display"`
}

func newBookResponse(book *entities.Book) BookResponse {
	resp := BookResponse{
		Book:          *book,
		URL:           catalog.BookURL(book.ID),
		StatusDisplay: book.Status.DisplayName(),
	}
	if resp.Labels == nil {
		resp.Labels = []entities.Label{}
	}
	if book.Language != nil {
		resp.LanguageName = catalog.LanguageName(*book.Language)
	}
	return resp
}

// Home handles GET /catalog/
func (bc *BooksController) Home(c *gin.Context) {
	view, err := bc.catalog.Home(c.Request.Context(), bc.visits)
	if err != nil {
		respondInternalError(c, err, "home")
		return
	}
	metrics.HomeVisitsTotal.Inc()
	c.JSON(http.StatusOK, view)
}

// List handles GET /catalog/books/?page=N
func (bc *BooksController) List(c *gin.Context) {
	page, err := bc.catalog.ListBooks(c.Query("page"))
	if err != nil {
		respondServiceError(c, err, "page", "list books")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Detail handles GET /catalog/book/:id
func (bc *BooksController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "book")
	if !ok {
		return
	}
	book, err := bc.catalog.GetBook(id)
	if err != nil {
		respondServiceError(c, err, "book", "get book")
		return
	}
	c.JSON(http.StatusOK, newBookResponse(book))
}

// Languages handles GET /catalog/languages
func (bc *BooksController) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default":   catalog.DefaultLanguage,
		"languages": catalog.Languages(),
	})
}
