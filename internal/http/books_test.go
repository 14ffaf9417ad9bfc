package http

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
)

func TestHome(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		s := setupServer(t, config.AuthModeNone)

		rr := s.do(http.MethodGet, "/catalog/", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		view := decode[catalog.HomeView](t, rr)
		assert.Equal(t, int64(0), view.NumBooks)
		assert.Equal(t, 1, view.NumVisits)
		assert.Empty(t, view.Books)
	})

	t.Run("latest books and visit counter", func(t *testing.T) {
		s := setupServer(t, config.AuthModeNone)
		for i := 1; i <= 6; i++ {
			s.createBook(fmt.Sprintf("Book %d", i), s.defaultUser)
			time.Sleep(5 * time.Millisecond)
		}

		view := decode[catalog.HomeView](t, s.do(http.MethodGet, "/catalog/", nil))
		assert.Equal(t, int64(6), view.NumBooks)
		assert.Equal(t, 1, view.NumVisits)
		require.Len(t, view.Books, 4)
		assert.Equal(t, "Book 6", view.Books[0].Title)
		assert.Equal(t, "mistyrose", view.Books[0].Colour)
		assert.Equal(t, "Book 3", view.Books[3].Title)
		assert.Equal(t, "aliceblue", view.Books[3].Colour)

		view = decode[catalog.HomeView](t, s.do(http.MethodGet, "/catalog/", nil))
		assert.Equal(t, 2, view.NumVisits)
	})

	t.Run("root redirects to catalog", func(t *testing.T) {
		s := setupServer(t, config.AuthModeNone)
		rr := s.do(http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/catalog/", rr.Header().Get("Location"))
	})
}

func TestListBooks(t *testing.T) {
	s := setupServer(t, config.AuthModeNone)
	for i := 0; i < 12; i++ {
		s.createBook(fmt.Sprintf("Title %02d", i), s.defaultUser)
	}

	rr := s.do(http.MethodGet, "/catalog/books/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[catalog.BookPage](t, rr)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.NumPages)
	assert.Equal(t, int64(12), page.Count)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
	require.Len(t, page.Books, 10)
	assert.Equal(t, "Title 00", page.Books[0].Title)

	page = decode[catalog.BookPage](t, s.do(http.MethodGet, "/catalog/books/?page=last", nil))
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Books, 2)
	assert.True(t, page.HasPrevious)

	for _, p := range []string{"3", "0", "abc"} {
		rr := s.do(http.MethodGet, "/catalog/books/?page="+p, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, "page=%s", p)
	}
}

func TestListBooks_EmptyFirstPage(t *testing.T) {
	s := setupServer(t, config.AuthModeNone)

	rr := s.do(http.MethodGet, "/catalog/books/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[catalog.BookPage](t, rr)
	assert.Equal(t, int64(0), page.Count)
	assert.NotNil(t, page.Books)
	assert.Empty(t, page.Books)
}

func TestBookDetail(t *testing.T) {
	s := setupServer(t, config.AuthModeNone)
	book := s.createBook("Dune", s.defaultUser)

	rr := s.do(http.MethodGet, catalog.BookURL(book.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[map[string]any](t, rr)
	assert.Equal(t, "Dune", resp["title"])
	assert.Equal(t, "en", resp["language"])
	assert.Equal(t, "English", resp["language_name"])
	assert.Equal(t, "a", resp["status"])
	assert.Equal(t, "Available", resp["status_display"])
	assert.Equal(t, catalog.BookURL(book.ID), resp["url"])
	assert.Equal(t, []any{}, resp["labels"])

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/catalog/book/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/catalog/book/abc", nil).Code)
}

func TestLanguages(t *testing.T) {
	s := setupServer(t, config.AuthModeNone)

	resp := decode[struct {
		Default   string             `json:"default"`
		Languages []catalog.Language `json:"languages"`
	}](t, s.do(http.MethodGet, "/catalog/languages", nil))

	assert.Equal(t, "en", resp.Default)
	assert.Contains(t, resp.Languages, catalog.Language{Code: "fr", Name: "French"})
}
