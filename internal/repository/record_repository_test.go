package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

var recordColumnNames = []string{"id", "agent", "qa_type", "date", "center", "score", "markdowns", "call_id", "request_id", "itinerary", "call_length", "notes", "created_by", "timestamp"}

func TestRecordRepositoryListAllOrdersByInsertion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(recordColumnNames).
		AddRow("r1", "Jo", "CS", ts, "WNS", 92, "{\"Must properly document notes.\"}", "", "", "", "", "", "rev@example.com", ts).
		AddRow("r2", "Amy", "", ts, "Buwelo", 70, "{}", "c-1", "", "", "", "", "rev@example.com", ts.Add(time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("FROM qa_scores ORDER BY timestamp ASC, id ASC")).WillReturnRows(rows)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-01", records[0].Date.String())
	assert.Equal(t, pq.StringArray{"Must properly document notes."}, records[0].Markdowns)
	assert.Equal(t, models.QAType(""), records[1].QAType)
	assert.Empty(t, records[1].Markdowns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryCreateReturnsServerTimestamp(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO qa_scores")).
		WithArgs(sqlmock.AnyArg(), "Jo", models.QATypeCS, "2025-03-01", models.CenterWNS, 95, sqlmock.AnyArg(), "", "", "", "", "", "rev@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"timestamp"}).AddRow(ts))

	record := &models.QaRecord{Agent: "Jo", QAType: models.QATypeCS, Date: models.NewDate(2025, 3, 1), Center: models.CenterWNS, Score: 95, CreatedBy: "rev@example.com"}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.True(t, record.Timestamp.Equal(ts))
	assert.NotNil(t, record.Markdowns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryUpdateBuildsPartialSet(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	score := 80
	notes := "coached"
	ts := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE qa_scores SET score = $1, notes = $2 WHERE id = $3 RETURNING")).
		WithArgs(80, "coached", "r1").
		WillReturnRows(sqlmock.NewRows(recordColumnNames).
			AddRow("r1", "Jo", "CS", ts, "WNS", 80, "{}", "", "", "", "", "coached", "rev@example.com", ts))

	record, err := repo.Update(context.Background(), "r1", models.RecordPatch{Score: &score, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 80, record.Score)
	assert.Equal(t, "coached", record.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryUpdateMissingRecord(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	agent := "Jo"
	mock.ExpectQuery("UPDATE qa_scores SET agent").WillReturnRows(sqlmock.NewRows(recordColumnNames))

	_, err := repo.Update(context.Background(), "missing", models.RecordPatch{Agent: &agent})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM qa_scores WHERE id = $1")).WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM qa_scores WHERE id = $1")).WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "r1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "gone"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
