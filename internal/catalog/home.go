package catalog

import (
	"context"
	"fmt"
)

// LatestBooksCount is how many recent books the home view shows.
const LatestBooksCount = len(Palette)

// LatestBook is a recently added book as shown on the home view.
type LatestBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Colour string `json:"colour"`
}

// HomeView is the home page summary.
type HomeView struct {
	NumBooks  int64        `json:"num_books"`
	NumVisits int          `json:"num_visits"`
	Books     []LatestBook `json:"books"`
}

// Home builds the home view and advances the session visit counter.
func (s *Service) Home(ctx context.Context, visits VisitCounter) (*HomeView, error) {
	count, err := s.books.CountBooks()
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	latest, err := s.books.LatestBooks(LatestBooksCount)
	if err != nil {
		return nil, fmt.Errorf("latest books: %w", err)
	}

	books := make([]LatestBook, 0, len(latest))
	for i, b := range latest {
		books = append(books, LatestBook{
			Title:  b.Title,
			Author: b.Author,
			URL:    BookURL(b.ID),
			Colour: Palette[i%len(Palette)],
		})
	}

	return &HomeView{
		NumBooks:  count,
		NumVisits: visits.NextVisit(ctx),
		Books:     books,
	}, nil
}
