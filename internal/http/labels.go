package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/tasks"
)

// LabelStore defines database operations for label management.
type LabelStore interface {
	CreateLabel(name string) (*entities.Label, error)
	GetLabelByID(id uint) (*entities.Label, error)
	ListLabels() ([]entities.Label, error)
	DeleteLabel(id uint) error
	AddLabelToBook(bookID, labelID uint) error
	RemoveLabelFromBook(bookID, labelID uint) error
	DeleteOrphanLabels() (int64, error)
	GetBooksByLabel(labelID uint) ([]entities.Book, error)
}

type LabelsController struct {
	store      LabelStore
	taskClient *tasks.Client
	kindName   string
}

func NewLabelsController(store LabelStore, taskClient *tasks.Client, kind string) *LabelsController {
	return &LabelsController{store: store, taskClient: taskClient, kindName: catalog.LabelKindName(kind)}
}

// LabelResponse is a label with its configured kind name.
type LabelResponse struct {
	entities.Label
	Kind string `json:"kind"`
}

func (lc *LabelsController) labelResponse(l entities.Label) LabelResponse {
	return LabelResponse{Label: l, Kind: lc.kindName}
}

// List handles GET /admin/catalog/labels
func (lc *LabelsController) List(c *gin.Context) {
	labels, err := lc.store.ListLabels()
	if err != nil {
		respondInternalError(c, err, "list labels")
		return
	}
	out := make([]LabelResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, lc.labelResponse(l))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /admin/catalog/labels/:id
func (lc *LabelsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "label")
	if !ok {
		return
	}
	label, err := lc.store.GetLabelByID(id)
	if err != nil {
		lc.respondStoreError(c, err, "label", "get label")
		return
	}
	c.JSON(http.StatusOK, lc.labelResponse(*label))
}

// Create handles POST /admin/catalog/labels
func (lc *LabelsController) Create(c *gin.Context) {
	var form catalog.LabelForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := form.Clean(); err != nil {
		respondServiceError(c, err, "label", "validate label")
		return
	}

	label, err := lc.store.CreateLabel(form.Name)
	if err != nil {
		respondInternalError(c, err, "create label")
		return
	}
	log.Info().Uint("label_id", label.ID).Str("name", label.Name).Msg("Label created")
	respondCreated(c, lc.labelResponse(*label))
}

// Delete handles DELETE /admin/catalog/labels/:id
func (lc *LabelsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "label")
	if !ok {
		return
	}
	if err := lc.store.DeleteLabel(id); err != nil {
		lc.respondStoreError(c, err, "label", "delete label")
		return
	}
	log.Info().Uint("label_id", id).Msg("Label deleted")
	c.Status(http.StatusNoContent)
}

// Books handles GET /admin/catalog/labels/:id/books
func (lc *LabelsController) Books(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "label")
	if !ok {
		return
	}
	books, err := lc.store.GetBooksByLabel(id)
	if err != nil {
		lc.respondStoreError(c, err, "label", "books by label")
		return
	}
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, newBookResponse(&books[i]))
	}
	c.JSON(http.StatusOK, out)
}

// AddToBook handles POST /admin/catalog/books/:id/labels
func (lc *LabelsController) AddToBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id", "book")
	if !ok {
		return
	}
	var req struct {
		LabelID uint `json:"label_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.LabelID == 0 {
		respondBadRequest(c, "label_id is required")
		return
	}

	if err := lc.store.AddLabelToBook(bookID, req.LabelID); err != nil {
		lc.respondStoreError(c, err, "book or label", "add label to book")
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveFromBook handles DELETE /admin/catalog/books/:id/labels/:labelId
func (lc *LabelsController) RemoveFromBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id", "book")
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "labelId", "label")
	if !ok {
		return
	}

	if err := lc.store.RemoveLabelFromBook(bookID, labelID); err != nil {
		lc.respondStoreError(c, err, "book label", "remove label from book")
		return
	}
	c.Status(http.StatusNoContent)
}

// CleanupOrphans handles POST /admin/catalog/labels/cleanup. With the task
// queue enabled the cleanup runs in the background, otherwise inline.
func (lc *LabelsController) CleanupOrphans(c *gin.Context) {
	if lc.taskClient != nil {
		taskID, err := lc.taskClient.EnqueueLabelCleanup()
		if err != nil {
			respondInternalError(c, err, "enqueue label cleanup")
			return
		}
		log.Info().Str("task_id", taskID).Msg("Enqueued orphan label cleanup")
		respondAccepted(c, "cleanup task enqueued", gin.H{"task_id": taskID})
		return
	}

	deleted, err := lc.store.DeleteOrphanLabels()
	if err != nil {
		respondInternalError(c, err, "cleanup orphan labels")
		return
	}
	log.Info().Int64("deleted", deleted).Msg("Cleaned up orphan labels")
	c.JSON(http.StatusOK, SuccessResponse{Message: "orphan labels deleted", Data: gin.H{"deleted": deleted}})
}

func (lc *LabelsController) respondStoreError(c *gin.Context, err error, resource, context string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, resource)
		return
	}
	respondInternalError(c, err, context)
}
