package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/middleware"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
	"github.com/noah-isme/qa-dashboard-api/pkg/response"
)

// requireIdentity writes 401 and returns false when the request carries no verified reviewer.
func requireIdentity(c *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Identity{}, false
	}
	return identity, true
}

// bindFilter parses the listing query parameters, writing 400 on failure.
func bindFilter(c *gin.Context) (models.RecordFilter, dto.AppliedFilter, bool) {
	var q dto.RecordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter"))
		return models.RecordFilter{}, dto.AppliedFilter{}, false
	}
	filter, applied, err := service.ParseRecordFilter(q)
	if err != nil {
		response.Error(c, err)
		return models.RecordFilter{}, dto.AppliedFilter{}, false
	}
	return filter, applied, true
}

// bindJSON decodes the request body into dest, writing 400 with message on failure.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}
