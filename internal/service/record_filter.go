package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
)

// ParseRecordFilter validates listing query parameters. Blank parameters match everything.
// The agent substring is kept verbatim, so "Jo " only matches names with a space after "Jo".
func ParseRecordFilter(q dto.RecordQuery) (models.RecordFilter, dto.AppliedFilter, error) {
	applied := dto.AppliedFilter{
		Agent:  q.Agent,
		Center: strings.TrimSpace(q.Center),
		Date:   strings.TrimSpace(q.Date),
		QAType: strings.TrimSpace(q.QAType),
	}
	filter := models.RecordFilter{Agent: applied.Agent}

	if applied.Center != "" {
		center := models.Center(applied.Center)
		if !center.Valid() {
			return filter, applied, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown center %q", applied.Center))
		}
		filter.Center = center
	}
	if applied.QAType != "" {
		qaType := models.QAType(applied.QAType)
		if !qaType.Valid() {
			return filter, applied, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown qaType %q", applied.QAType))
		}
		filter.QAType = qaType
	}
	if applied.Date != "" {
		date, err := models.ParseDate(applied.Date)
		if err != nil {
			return filter, applied, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		filter.Date = &date
	}
	return filter, applied, nil
}
