// Package labels provides database operations for labels (tags or genres)
// and the book_labels association table.
//
// # Usage
//
//	repo := labels.NewRepository(db)
//	label, err := repo.CreateLabel("Science Fiction")
//	err = repo.AddLabelToBook(bookID, label.ID)
package labels

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/catalog/internal/entities"
)

// Repository handles all label database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new labels repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateLabel creates a new label.
func (r *Repository) CreateLabel(name string) (*entities.Label, error) {
	label := &entities.Label{Name: name}
	if err := r.db.Create(label).Error; err != nil {
		return nil, err
	}
	return label, nil
}

// GetLabelByID retrieves a label by ID.
func (r *Repository) GetLabelByID(id uint) (*entities.Label, error) {
	var label entities.Label
	if err := r.db.First(&label, id).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// GetLabelsByIDs returns the labels that exist among ids.
func (r *Repository) GetLabelsByIDs(ids []uint) ([]entities.Label, error) {
	var labels []entities.Label
	if len(ids) == 0 {
		return labels, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&labels).Error
	return labels, err
}

// ListLabels retrieves all labels ordered by name.
func (r *Repository) ListLabels() ([]entities.Label, error) {
	var labels []entities.Label
	err := r.db.Order("name ASC, id ASC").Find(&labels).Error
	return labels, err
}

// DeleteLabel deletes a label. Its book associations are removed by the
// database.
func (r *Repository) DeleteLabel(id uint) error {
	result := r.db.Delete(&entities.Label{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddLabelToBook appends a label to the book's label list. Adding a label
// the book already has is a no-op.
func (r *Repository) AddLabelToBook(bookID, labelID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entities.Book{}, bookID).Error; err != nil {
			return err
		}
		if err := tx.First(&entities.Label{}, labelID).Error; err != nil {
			return err
		}

		var next int
		err := tx.Model(&entities.BookLabel{}).
			Select("COALESCE(MAX(position) + 1, 0)").
			Where("book_id = ?", bookID).
			Scan(&next).Error
		if err != nil {
			return err
		}

		row := entities.BookLabel{BookID: bookID, LabelID: labelID, Position: next}
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&row).Error
	})
}

// RemoveLabelFromBook removes a label from a book.
func (r *Repository) RemoveLabelFromBook(bookID, labelID uint) error {
	result := r.db.Where("book_id = ? AND label_id = ?", bookID, labelID).Delete(&entities.BookLabel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsLabelOrphan checks if a label is attached to no book.
func (r *Repository) IsLabelOrphan(labelID uint) (bool, error) {
	var count int64
	if err := r.db.Table("book_labels").Where("label_id = ?", labelID).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// DeleteOrphanLabels removes all labels attached to no book.
func (r *Repository) DeleteOrphanLabels() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM labels
		WHERE id NOT IN (SELECT label_id FROM book_labels)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetBooksByLabel retrieves books carrying a label, in default book order.
func (r *Repository) GetBooksByLabel(labelID uint) ([]entities.Book, error) {
	if _, err := r.GetLabelByID(labelID); err != nil {
		return nil, err
	}

	var books []entities.Book
	err := r.db.
		Where("books.id IN (SELECT book_id FROM book_labels WHERE label_id = ?)", labelID).
		Order("title ASC, author ASC, id ASC").
		Find(&books).Error
	return books, err
}
