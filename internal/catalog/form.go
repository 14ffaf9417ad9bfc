package catalog

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/catalog/internal/entities"
)

const (
	maxTitleLength   = 200
	maxAuthorLength  = 200
	maxSummaryLength = 1000
	isbnLength       = 13
	maxLabelLength   = 200
)

// BookForm is the editable field set of a book. Owner, borrower and loan
// status are deliberately absent.
//
// Language distinguishes omission from a blank value: a nil pointer stores
// the default language, an empty string stores no language.
type BookForm struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Summary  string  `json:"summary"`
	ISBN     string  `json:"isbn"`
	Labels   []uint  `json:"labels"`
	Language *string `json:"language"`
}

// Normalize trims whitespace from the text fields.
func (f *BookForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Summary = strings.TrimSpace(f.Summary)
	f.ISBN = strings.TrimSpace(f.ISBN)
	if f.Language != nil {
		lang := strings.TrimSpace(*f.Language)
		f.Language = &lang
	}
}

func (f BookForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("this field is required"),
			validation.RuneLength(0, maxTitleLength).Error("must be at most 200 characters"),
		),
		validation.Field(&f.Author,
			validation.Required.Error("this field is required"),
			validation.RuneLength(0, maxAuthorLength).Error("must be at most 200 characters"),
		),
		validation.Field(&f.Summary,
			validation.RuneLength(0, maxSummaryLength).Error("must be at most 1000 characters"),
		),
		validation.Field(&f.ISBN,
			validation.RuneLength(isbnLength, isbnLength).Error("must be exactly 13 characters"),
		),
		validation.Field(&f.Language,
			validation.In(languageChoices()...).Error("unknown language code"),
		),
	)
}

// Book builds the record described by the form. Blank optional values are
// stored as NULL.
func (f BookForm) Book() *entities.Book {
	book := &entities.Book{
		Title:   f.Title,
		Author:  f.Author,
		Summary: nullable(f.Summary),
		ISBN:    nullable(f.ISBN),
	}
	if f.Language == nil {
		lang := DefaultLanguage
		book.Language = &lang
	} else {
		book.Language = nullable(*f.Language)
	}
	return book
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LabelForm is the editable field set of a label.
type LabelForm struct {
	Name string `json:"name"`
}

// Clean trims and validates the form, returning a *ValidationError on
// failure.
func (f *LabelForm) Clean() error {
	f.Name = strings.TrimSpace(f.Name)
	return fromValidation(validation.ValidateStruct(f,
		validation.Field(&f.Name,
			validation.Required.Error("this field is required"),
			validation.RuneLength(0, maxLabelLength).Error("must be at most 200 characters"),
		),
	))
}
