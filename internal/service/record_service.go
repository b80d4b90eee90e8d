package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/internal/catalog"
	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/repository"
	"github.com/noah-isme/qa-dashboard-api/internal/scoring"
	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
	"github.com/noah-isme/qa-dashboard-api/pkg/events"
	"github.com/noah-isme/qa-dashboard-api/pkg/logger"
)

type recordStore interface {
	FindByID(ctx context.Context, id string) (*models.QaRecord, error)
	Create(ctx context.Context, record *models.QaRecord) error
	Update(ctx context.Context, id string, patch models.RecordPatch) (*models.QaRecord, error)
	Delete(ctx context.Context, id string) error
}

type snapshotRefresher interface {
	Refresh(ctx context.Context) (models.Snapshot, error)
}

type changePublisher interface {
	Publish(ctx context.Context, notice repository.ChangeNotice) error
}

type eventSink interface {
	Dispatch(event events.Event)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// RecordService is the only writer of QA records.
type RecordService struct {
	store     recordStore
	feed      snapshotRefresher
	policy    *AccessPolicy
	model     *scoring.Model
	validator *validator.Validate
	logger    *zap.Logger

	bus     changePublisher
	cache   *CacheService
	events  eventSink
	audit   auditWriter
	metrics *MetricsService
}

// NewRecordService constructs a RecordService. Optional collaborators are attached with the With* methods.
func NewRecordService(store recordStore, feed snapshotRefresher, policy *AccessPolicy, model *scoring.Model, validate *validator.Validate, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if policy == nil {
		policy = NewAccessPolicy(nil, nil)
	}
	return &RecordService{store: store, feed: feed, policy: policy, model: model, validator: validate, logger: logger}
}

// WithChangeBus announces committed writes to other instances.
func (s *RecordService) WithChangeBus(bus changePublisher) *RecordService {
	s.bus = bus
	return s
}

// WithCache invalidates cached dashboard payloads after writes.
func (s *RecordService) WithCache(cache *CacheService) *RecordService {
	s.cache = cache
	return s
}

// WithEvents forwards committed writes as change events.
func (s *RecordService) WithEvents(sink eventSink) *RecordService {
	s.events = sink
	return s
}

// WithAudit records writes in the audit log.
func (s *RecordService) WithAudit(audit auditWriter) *RecordService {
	s.audit = audit
	return s
}

// WithMetrics counts writes by outcome.
func (s *RecordService) WithMetrics(metrics *MetricsService) *RecordService {
	s.metrics = metrics
	return s
}

// Get returns a single record.
func (s *RecordService) Get(ctx context.Context, id string) (*models.QaRecord, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}
	return record, nil
}

// Create validates and stores a new evaluation submitted by identity.
func (s *RecordService) Create(ctx context.Context, identity models.Identity, req dto.CreateRecordRequest) (*models.QaRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	agent := strings.TrimSpace(req.Agent)
	if agent == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "agent is required")
	}
	if req.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if err := s.checkMarkdowns(req.QAType, req.Markdowns); err != nil {
		return nil, err
	}

	record := &models.QaRecord{
		Agent:      agent,
		QAType:     req.QAType,
		Date:       req.Date,
		Center:     req.Center,
		Score:      *req.Score,
		Markdowns:  pq.StringArray(s.model.OrderMarkdowns(req.QAType, req.Markdowns)),
		CallID:     req.CallID,
		RequestID:  req.RequestID,
		Itinerary:  req.Itinerary,
		CallLength: req.CallLength,
		Notes:      req.Notes,
		CreatedBy:  identity.Email,
	}
	err := s.store.Create(ctx, record)
	s.metrics.RecordWrite("create", err)
	if err != nil {
		logger.For(ctx, s.logger).Error("failed to save record", zap.String("actor", identity.Email), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save record")
	}

	s.afterWrite(ctx, identity, events.TypeCreated, record.ID, models.AuditActionRecordCreate, nil, record)
	return record, nil
}

// Update applies a partial edit when identity may change the record.
func (s *RecordService) Update(ctx context.Context, identity models.Identity, id string, req dto.UpdateRecordRequest) (*models.QaRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanMutate(identity, *existing) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the submitter or an administrator can change this record")
	}
	if err := checkImmutable(req, existing); err != nil {
		return nil, err
	}

	patch := req.Patch()
	if patch.Agent != nil && *patch.Agent == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "agent is required")
	}
	if patch.QAType != nil && !patch.QAType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "qaType must be CS or Groups")
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if patch.QAType != nil || patch.Markdowns != nil {
		merged := patch.Apply(*existing)
		if err := s.checkMarkdowns(merged.QAType, merged.Markdowns); err != nil {
			return nil, err
		}
		// a type change alone still reorders the stored markdowns for the new category
		if patch.Markdowns != nil || len(merged.Markdowns) > 0 {
			patch.Markdowns = s.model.OrderMarkdowns(merged.QAType, merged.Markdowns)
		}
	}
	if patch.Empty() {
		return existing, nil
	}

	updated, err := s.store.Update(ctx, id, patch)
	s.metrics.RecordWrite("update", err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		logger.For(ctx, s.logger).Error("failed to update record", zap.String("record_id", id), zap.String("actor", identity.Email), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update record")
	}

	s.afterWrite(ctx, identity, events.TypeUpdated, id, models.AuditActionRecordUpdate, existing, updated)
	return updated, nil
}

// Delete permanently removes a record when identity may change it.
func (s *RecordService) Delete(ctx context.Context, identity models.Identity, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanMutate(identity, *existing) {
		return appErrors.Clone(appErrors.ErrForbidden, "only the submitter or an administrator can delete this record")
	}

	err = s.store.Delete(ctx, id)
	s.metrics.RecordWrite("delete", err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		logger.For(ctx, s.logger).Error("failed to delete record", zap.String("record_id", id), zap.String("actor", identity.Email), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete record")
	}

	s.afterWrite(ctx, identity, events.TypeDeleted, id, models.AuditActionRecordDelete, existing, nil)
	return nil
}

func (s *RecordService) checkMarkdowns(qaType models.QAType, markdowns []string) error {
	unknown := s.model.UnknownMarkdowns(catalog.Resolve(qaType), markdowns)
	if len(unknown) == 0 {
		return nil
	}
	return appErrors.Clone(appErrors.ErrUnknownGuideline,
		fmt.Sprintf("markdowns not in the %s checklist: %s", catalog.Resolve(qaType), strings.Join(unknown, "; ")))
}

// invalidPayload reports validator failures keyed by JSON field name.
func invalidPayload(err error) error {
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid record payload")
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErr
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return appErr.WithDetails(details)
}

func checkImmutable(req dto.UpdateRecordRequest, existing *models.QaRecord) error {
	switch {
	case req.ID != nil && *req.ID != existing.ID:
		return appErrors.Clone(appErrors.ErrImmutableField, "id cannot be changed")
	case req.CreatedBy != nil && *req.CreatedBy != existing.CreatedBy:
		return appErrors.Clone(appErrors.ErrImmutableField, "createdBy cannot be changed")
	case req.Timestamp != nil && !req.Timestamp.Equal(existing.Timestamp):
		return appErrors.Clone(appErrors.ErrImmutableField, "timestamp cannot be changed")
	}
	return nil
}

// afterWrite propagates a committed write. Each step is best effort; the write already succeeded.
func (s *RecordService) afterWrite(ctx context.Context, identity models.Identity, eventType, recordID, action string, before, after *models.QaRecord) {
	log := logger.For(ctx, s.logger)
	if s.feed != nil {
		if _, err := s.feed.Refresh(ctx); err != nil {
			log.Error("failed to refresh snapshot after write", zap.String("record_id", recordID), zap.Error(err))
		}
	}
	if s.bus != nil {
		if err := s.bus.Publish(ctx, repository.ChangeNotice{Type: eventType, RecordID: recordID}); err != nil {
			log.Warn("failed to announce change", zap.String("record_id", recordID), zap.Error(err))
		}
	}
	if err := s.cache.InvalidateDashboard(ctx); err != nil {
		log.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
	if s.events != nil {
		s.events.Dispatch(events.Event{Type: eventType, RecordID: recordID, Actor: identity.Email, OccurredAt: time.Now().UTC()})
	}
	if s.audit != nil {
		entry := &models.AuditLog{Action: action, Resource: "qa_scores", ResourceID: &recordID}
		if identity.UserID != "" {
			userID := identity.UserID
			entry.UserID = &userID
		}
		entry.OldValues = marshalAudit(before)
		entry.NewValues = marshalAudit(after)
		if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
			log.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
		}
	}
}

func marshalAudit(record *models.QaRecord) []byte {
	if record == nil {
		return nil
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	return raw
}
