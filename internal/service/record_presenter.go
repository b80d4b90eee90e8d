package service

import (
	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/scoring"
)

// RecordPresenter derives the per-viewer fields shown alongside stored records.
type RecordPresenter struct {
	model  *scoring.Model
	policy *AccessPolicy
}

// NewRecordPresenter constructs a presenter.
func NewRecordPresenter(model *scoring.Model, policy *AccessPolicy) *RecordPresenter {
	return &RecordPresenter{model: model, policy: policy}
}

// View recomputes pass/fail for record and resolves whether viewer may edit it.
func (p *RecordPresenter) View(viewer models.Identity, record models.QaRecord) dto.RecordView {
	return dto.RecordView{
		QaRecord:      record,
		Passing:       p.model.IsPassing(record.QAType, record.Score),
		PassThreshold: p.model.Catalog().PassThreshold(record.QAType),
		CanEdit:       p.policy.CanMutate(viewer, record),
	}
}

// Views maps View over records, preserving order.
func (p *RecordPresenter) Views(viewer models.Identity, records []models.QaRecord) []dto.RecordView {
	views := make([]dto.RecordView, 0, len(records))
	for _, record := range records {
		views = append(views, p.View(viewer, record))
	}
	return views
}

// Recent builds the recent markdowns panel entry for record.
func (p *RecordPresenter) Recent(viewer models.Identity, record models.QaRecord) dto.RecentEntry {
	details := make([]dto.MarkdownView, 0, len(record.Markdowns))
	for _, statement := range record.Markdowns {
		details = append(details, dto.MarkdownView{Statement: statement, Class: string(p.model.ClassifyMarkdown(statement))})
	}
	return dto.RecentEntry{RecordView: p.View(viewer, record), MarkdownDetails: details}
}
