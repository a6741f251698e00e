package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExamRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestExamWindowRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamWindowRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("exam_week_start", "2024-01-15").
		AddRow("exam_week_end", "2024-01-19")
	mock.ExpectQuery("SELECT key, value FROM settings WHERE key IN").
		WithArgs("exam_week_start", "exam_week_end").
		WillReturnRows(rows)

	window, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", window.Start.String())
	assert.Equal(t, "2024-01-19", window.End.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamWindowRepositoryLoadMissingSetting(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamWindowRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("exam_week_start", "2024-01-15")
	mock.ExpectQuery("SELECT key, value FROM settings WHERE key IN").
		WithArgs("exam_week_start", "exam_week_end").
		WillReturnRows(rows)

	_, err := repo.Load(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exam_week_end")
}

func TestExamWindowRepositoryLoadMalformedDate(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamWindowRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("exam_week_start", "15/01/2024").
		AddRow("exam_week_end", "2024-01-19")
	mock.ExpectQuery("SELECT key, value FROM settings WHERE key IN").
		WithArgs("exam_week_start", "exam_week_end").
		WillReturnRows(rows)

	_, err := repo.Load(context.Background())
	assert.Error(t, err)
}

func TestExamRoomRepositoryListByName(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "capacity", "has_computer", "active", "department_id", "created_at"}).
		AddRow("room-1", "R1", 40, false, true, nil, time.Now())
	mock.ExpectQuery("SELECT id, name, capacity, has_computer, active, department_id, created_at FROM exam_rooms WHERE name IN").
		WithArgs("R1", "R2").
		WillReturnRows(rows)

	result, err := repo.ListByName(context.Background(), []string{"R1", "R2"})
	require.NoError(t, err)
	require.Contains(t, result, "R1")
	assert.Equal(t, "room-1", result["R1"].ID)
	assert.NotContains(t, result, "R2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRoomRepositoryListByNameEmpty(t *testing.T) {
	db, _, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamRoomRepository(db)

	result, err := repo.ListByName(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestExamRequestRepositoryListPending(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamRequestRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "course_code", "class_level", "instructor", "student_count", "duration_minutes", "needs_computer",
		"difficulty", "preferred_dates", "allowed_room_names", "department_id", "status", "created_at", "updated_at",
	}).AddRow("req-1", "CS101", 2, "Dr. A", 40, 90, false, "Easy", "2024-01-15,2024-01-16", "R1,R2", "dept-1", "pending", time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_code, class_level, instructor, student_count, duration_minutes, needs_computer,\ndifficulty, preferred_dates, allowed_room_names, department_id, status, created_at, updated_at\nFROM exam_requests WHERE status = $1 ORDER BY created_at ASC")).
		WithArgs("pending").
		WillReturnRows(rows)

	requests, err := repo.ListPending(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "CS101", requests[0].CourseCode)
	assert.Len(t, requests[0].PreferredDates, 2)
	assert.Equal(t, []string{"R1", "R2"}, requests[0].AllowedRoomNames)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRequestRepositoryListPendingScopedByDepartment(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamRequestRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "course_code", "class_level", "instructor", "student_count", "duration_minutes", "needs_computer",
		"difficulty", "preferred_dates", "allowed_room_names", "department_id", "status", "created_at", "updated_at",
	})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_code, class_level, instructor, student_count, duration_minutes, needs_computer,\ndifficulty, preferred_dates, allowed_room_names, department_id, status, created_at, updated_at\nFROM exam_requests WHERE status = $1 AND department_id = $2 ORDER BY created_at ASC")).
		WithArgs("pending", "dept-1").
		WillReturnRows(rows)

	dept := "dept-1"
	requests, err := repo.ListPending(context.Background(), &dept)
	require.NoError(t, err)
	assert.Empty(t, requests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseDifficultyRejectsUnknown(t *testing.T) {
	_, err := parseDifficulty("Medium")
	assert.Error(t, err)
}

func TestSplitCSVTrimsAndDropsEmpty(t *testing.T) {
	assert.Equal(t, []string{"R1", "R2"}, splitCSV(" R1 , R2 ,"))
	assert.Nil(t, splitCSV(""))
}
