package catalog

import (
	"fmt"
	"strings"

	"github.com/mrlokans/catalog/internal/entities"
)

// BooksURL is the canonical listing of all books.
const BooksURL = "/catalog/books/"

// Palette colours the latest books on the home view, by position.
var Palette = [...]string{"mistyrose", "lemonchiffon", "#d0eed0", "aliceblue"}

const maxDisplayLabels = 3

// BookURL returns the detail address of a book.
func BookURL(id uint) string {
	return fmt.Sprintf("/catalog/book/%d", id)
}

// DisplayLabels joins the names of at most three labels in assignment order.
func DisplayLabels(book *entities.Book) string {
	labels := book.Labels
	if len(labels) > maxDisplayLabels {
		labels = labels[:maxDisplayLabels]
	}
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	return strings.Join(names, ", ")
}

// LabelKindName is the display name of the label concept.
func LabelKindName(kind string) string {
	if kind == "genre" {
		return "Genre"
	}
	return "Tag"
}
