package entities

import (
	"time"

	"gorm.io/gorm"
)

// LoanStatus is the availability of a book, stored as a single character.
type LoanStatus string

const (
	LoanStatusOnLoan    LoanStatus = "o"
	LoanStatusAvailable LoanStatus = "a"
)

// DisplayName returns the human readable status.
func (s LoanStatus) DisplayName() string {
	switch s {
	case LoanStatusOnLoan:
		return "On loan"
	case LoanStatusAvailable:
		return "Available"
	default:
		return string(s)
	}
}

// Label classifies books. Depending on configuration it is presented as a
// tag or as a genre, the stored shape is the same.
type Label struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Label) TableName() string {
	return "labels"
}

func (l Label) String() string {
	return l.Name
}

// Book is a catalogued title (not a physical copy).
type Book struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Title    string  `gorm:"size:200;not null" json:"title"`
	Author   string  `gorm:"size:200;not null" json:"author"`
	Summary  *string `gorm:"type:text" json:"summary"`
	ISBN     *string `gorm:"column:isbn;type:char(13);uniqueIndex" json:"isbn"`
	Language *string `gorm:"size:10" json:"language"`

	// Lending
	OwnerID    uint       `gorm:"not null;index" json:"owner_id"`
	Owner      User       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	BorrowerID *uint      `gorm:"index" json:"borrower_id"`
	Borrower   *User      `gorm:"foreignKey:BorrowerID;constraint:OnDelete:SET NULL" json:"-"`
	Status     LoanStatus `gorm:"type:char(1);not null" json:"status"`

	// Loaded from book_labels in assignment order
	Labels []Label `gorm:"-" json:"labels"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

func (b Book) String() string {
	return b.Title
}

// BeforeCreate fills in the loan status for new records.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = LoanStatusAvailable
	}
	return nil
}

// BookLabel is the association between books and labels. Position keeps the
// order in which labels were assigned to the book.
type BookLabel struct {
	BookID   uint  `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	LabelID  uint  `gorm:"primaryKey;autoIncrement:false;index" json:"label_id"`
	Position int   `gorm:"not null" json:"position"`
	Book     Book  `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Label    Label `gorm:"foreignKey:LabelID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BookLabel) TableName() string {
	return "book_labels"
}
