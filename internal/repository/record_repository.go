package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

const recordColumns = `id, agent, qa_type, date, center, score, markdowns, call_id, request_id, itinerary, call_length, notes, created_by, timestamp`

// RecordRepository provides database access for QA score records.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new instance of RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// ListAll returns every record in insertion order.
func (r *RecordRepository) ListAll(ctx context.Context) ([]models.QaRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM qa_scores ORDER BY timestamp ASC, id ASC", recordColumns)
	var records []models.QaRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list qa records: %w", err)
	}
	return records, nil
}

// FindByID returns a record by identifier.
func (r *RecordRepository) FindByID(ctx context.Context, id string) (*models.QaRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM qa_scores WHERE id = $1 LIMIT 1", recordColumns)
	var record models.QaRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find qa record: %w", err)
	}
	return &record, nil
}

// Create inserts a record. The id is assigned here and the timestamp by the database clock.
func (r *RecordRepository) Create(ctx context.Context, record *models.QaRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Markdowns == nil {
		record.Markdowns = pq.StringArray{}
	}
	const query = `INSERT INTO qa_scores (id, agent, qa_type, date, center, score, markdowns, call_id, request_id, itinerary, call_length, notes, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING timestamp`
	err := r.db.QueryRowxContext(ctx, query,
		record.ID, record.Agent, record.QAType, record.Date, record.Center, record.Score, record.Markdowns,
		record.CallID, record.RequestID, record.Itinerary, record.CallLength, record.Notes, record.CreatedBy,
	).Scan(&record.Timestamp)
	if err != nil {
		return fmt.Errorf("create qa record: %w", err)
	}
	return nil
}

// Update applies the non-nil patch fields in one statement and returns the stored record.
func (r *RecordRepository) Update(ctx context.Context, id string, patch models.RecordPatch) (*models.QaRecord, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Agent != nil {
		set("agent", *patch.Agent)
	}
	if patch.QAType != nil {
		set("qa_type", *patch.QAType)
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.Center != nil {
		set("center", *patch.Center)
	}
	if patch.Score != nil {
		set("score", *patch.Score)
	}
	if patch.Markdowns != nil {
		set("markdowns", pq.StringArray(patch.Markdowns))
	}
	if patch.CallID != nil {
		set("call_id", *patch.CallID)
	}
	if patch.RequestID != nil {
		set("request_id", *patch.RequestID)
	}
	if patch.Itinerary != nil {
		set("itinerary", *patch.Itinerary)
	}
	if patch.CallLength != nil {
		set("call_length", *patch.CallLength)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE qa_scores SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), recordColumns)

	var record models.QaRecord
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update qa record: %w", err)
	}
	return &record, nil
}

// Delete permanently removes a record. It returns sql.ErrNoRows when nothing was deleted.
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM qa_scores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete qa record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete qa record: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
