package dto

import (
	"strings"
	"time"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

// CreateRecordRequest is the evaluation form submission.
type CreateRecordRequest struct {
	Agent      string        `json:"agent" validate:"required,max=200"`
	QAType     models.QAType `json:"qaType" validate:"required,oneof=CS Groups"`
	Date       models.Date   `json:"date"`
	Center     models.Center `json:"center" validate:"required,oneof=Teleperformance Buwelo WNS Concentrix"`
	Score      *int          `json:"score" validate:"required,min=0,max=100"`
	Markdowns  []string      `json:"markdowns" validate:"omitempty,dive,required"`
	CallID     string        `json:"callId" validate:"max=200"`
	RequestID  string        `json:"requestId" validate:"max=200"`
	Itinerary  string        `json:"itinerary" validate:"max=200"`
	CallLength string        `json:"callLength" validate:"max=50"`
	Notes      string        `json:"notes" validate:"max=5000"`
}

// UpdateRecordRequest carries a partial edit. Absent fields are left unchanged.
// ID, CreatedBy and Timestamp are accepted only when they match the stored values.
type UpdateRecordRequest struct {
	ID         *string        `json:"id"`
	CreatedBy  *string        `json:"createdBy"`
	Timestamp  *time.Time     `json:"timestamp"`
	Agent      *string        `json:"agent" validate:"omitempty,min=1,max=200"`
	QAType     *models.QAType `json:"qaType" validate:"omitempty,oneof=CS Groups"`
	Date       *models.Date   `json:"date"`
	Center     *models.Center `json:"center" validate:"omitempty,oneof=Teleperformance Buwelo WNS Concentrix"`
	Score      *int           `json:"score" validate:"omitempty,min=0,max=100"`
	Markdowns  []string       `json:"markdowns" validate:"omitempty,dive,required"`
	CallID     *string        `json:"callId" validate:"omitempty,max=200"`
	RequestID  *string        `json:"requestId" validate:"omitempty,max=200"`
	Itinerary  *string        `json:"itinerary" validate:"omitempty,max=200"`
	CallLength *string        `json:"callLength" validate:"omitempty,max=50"`
	Notes      *string        `json:"notes" validate:"omitempty,max=5000"`
}

// Patch converts the mutable part of the request into a store patch.
func (r UpdateRecordRequest) Patch() models.RecordPatch {
	patch := models.RecordPatch{
		QAType:     r.QAType,
		Date:       r.Date,
		Center:     r.Center,
		Score:      r.Score,
		Markdowns:  r.Markdowns,
		CallID:     r.CallID,
		RequestID:  r.RequestID,
		Itinerary:  r.Itinerary,
		CallLength: r.CallLength,
		Notes:      r.Notes,
	}
	if r.Agent != nil {
		agent := strings.TrimSpace(*r.Agent)
		patch.Agent = &agent
	}
	return patch
}

// RecordQuery mirrors the listing filter query parameters.
type RecordQuery struct {
	Agent  string `form:"agent"`
	Center string `form:"center"`
	Date   string `form:"date"`
	QAType string `form:"qaType"`
}

// RecordView is a record as shown in listings, with derived fields.
type RecordView struct {
	models.QaRecord
	Passing       bool `json:"passing"`
	PassThreshold int  `json:"passThreshold"`
	CanEdit       bool `json:"canEdit"`
}

// MarkdownView tags a marked-down statement with the checklist it belongs to.
type MarkdownView struct {
	Statement string `json:"statement"`
	Class     string `json:"class"`
}

// RecentEntry is one row of the recent markdowns panel.
type RecentEntry struct {
	RecordView
	MarkdownDetails []MarkdownView `json:"markdownDetails"`
}
