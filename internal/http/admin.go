package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/metrics"
)

// AdminBooksController serves book mutations and the admin table. Routes
// are registered behind the catalog.manage_books capability.
type AdminBooksController struct {
	catalog *catalog.Service
}

func NewAdminBooksController(svc *catalog.Service) *AdminBooksController {
	return &AdminBooksController{catalog: svc}
}

// List handles GET /admin/catalog/books
func (ac *AdminBooksController) List(c *gin.Context) {
	page, err := ac.catalog.AdminListBooks(c.Query("page"))
	if err != nil {
		respondServiceError(c, err, "page", "admin list books")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create handles POST /catalog/book/create/
func (ac *AdminBooksController) Create(c *gin.Context) {
	var form catalog.BookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := ac.catalog.CreateBook(form, auth.GetUser(c))
	metrics.ObserveMutation("create", err)
	if err != nil {
		respondServiceError(c, err, "book", "create book")
		return
	}

	c.Header("Location", catalog.BookURL(book.ID))
	respondCreated(c, newBookResponse(book))
}

// Update handles POST /catalog/book/:id/update/ and PUT /catalog/book/:id
func (ac *AdminBooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "book")
	if !ok {
		return
	}

	var form catalog.BookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := ac.catalog.UpdateBook(id, form)
	metrics.ObserveMutation("update", err)
	if err != nil {
		respondServiceError(c, err, "book", "update book")
		return
	}
	c.JSON(http.StatusOK, newBookResponse(book))
}

// Delete handles POST /catalog/book/:id/delete/ and DELETE /catalog/book/:id.
// A successful delete redirects to the book list.
func (ac *AdminBooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "book")
	if !ok {
		return
	}

	err := ac.catalog.DeleteBook(id)
	metrics.ObserveMutation("delete", err)
	if err != nil {
		respondServiceError(c, err, "book", "delete book")
		return
	}
	c.Redirect(http.StatusSeeOther, catalog.BooksURL)
}
