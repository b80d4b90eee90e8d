package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/middleware"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/pkg/response"
)

// Confirmation messages shown by the client after a successful write.
const (
	MessageSaved   = "Saved successfully!"
	MessageUpdated = "Entry updated successfully!"
	MessageDeleted = "Entry deleted successfully!"
)

type recordService interface {
	Get(ctx context.Context, id string) (*models.QaRecord, error)
	Create(ctx context.Context, identity models.Identity, req dto.CreateRecordRequest) (*models.QaRecord, error)
	Update(ctx context.Context, identity models.Identity, id string, req dto.UpdateRecordRequest) (*models.QaRecord, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
}

type recordLister interface {
	Records(viewer models.Identity, filter models.RecordFilter, applied dto.AppliedFilter) dto.RecordListResponse
}

type recordViewer interface {
	View(viewer models.Identity, record models.QaRecord) dto.RecordView
}

// RecordHandler exposes evaluation CRUD endpoints.
type RecordHandler struct {
	records   recordService
	lister    recordLister
	presenter recordViewer
}

// NewRecordHandler constructs a RecordHandler.
func NewRecordHandler(records recordService, lister recordLister, presenter recordViewer) *RecordHandler {
	return &RecordHandler{records: records, lister: lister, presenter: presenter}
}

// List godoc
// @Summary List evaluations
// @Description Filtered evaluation table with summary cards, in submission order
// @Tags Records
// @Produce json
// @Param agent query string false "Agent name substring"
// @Param center query string false "Call center"
// @Param date query string false "Call date (YYYY-MM-DD)"
// @Param qaType query string false "CS or Groups"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	filter, applied, ok := bindFilter(c)
	if !ok {
		return
	}
	resp := h.lister.Records(identity, filter, applied)
	middleware.SetSnapshotVersion(c, resp.SnapshotVersion)
	response.JSON(c, http.StatusOK, resp, response.Whole(len(resp.Records)), middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get evaluation
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	record, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.presenter.View(identity, *record), nil)
}

// Create godoc
// @Summary Submit evaluation
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.CreateRecordRequest true "Evaluation"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Security BearerAuth
// @Router /records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateRecordRequest
	if !bindJSON(c, &req, "invalid record payload") {
		return
	}

	record, err := h.records.Create(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, h.presenter.View(identity, *record), MessageSaved)
}

// Update godoc
// @Summary Edit evaluation
// @Description Partial update; only the submitter or an administrator may edit
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body dto.UpdateRecordRequest true "Changed fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /records/{id} [patch]
func (h *RecordHandler) Update(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.UpdateRecordRequest
	if !bindJSON(c, &req, "invalid record payload") {
		return
	}

	record, err := h.records.Update(c.Request.Context(), identity, strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.presenter.View(identity, *record), nil, response.WithMessage(MessageUpdated))
}

// Delete godoc
// @Summary Delete evaluation
// @Description Permanent; only the submitter or an administrator may delete
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if err := h.records.Delete(c.Request.Context(), identity, id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": id}, nil, response.WithMessage(MessageDeleted))
}
