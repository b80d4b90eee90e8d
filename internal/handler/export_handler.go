package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/service"
	"github.com/noah-isme/qa-dashboard-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, format string, filter models.RecordFilter) (*service.ExportFile, error)
}

// ExportHandler serves document downloads of the filtered table.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Download evaluations
// @Description Renders the filtered table as xlsx, pdf or csv
// @Tags Exports
// @Produce application/octet-stream
// @Param format path string true "xlsx, pdf or csv"
// @Param agent query string false "Agent name substring"
// @Param center query string false "Call center"
// @Param date query string false "Call date (YYYY-MM-DD)"
// @Param qaType query string false "CS or Groups"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/{format} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	filter, _, ok := bindFilter(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), c.Param("format"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
