package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

func TestExamAssignmentRepositoryPersistBatch(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exam_assignments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE exam_requests SET status = 'planned'")).
		WithArgs(sqlmock.AnyArg(), "req-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	batch := []examdomain.Assignment{{
		ExamRequestID: "req-1",
		PrimaryRoomID: "room-1",
		ScheduledDate: examtime.NewDate(2024, 1, 15),
		StartTime:     examtime.MustClock(9, 0),
		EndTime:       examtime.MustClock(10, 30),
	}}
	err := repo.PersistBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamAssignmentRepositoryPersistBatchEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamAssignmentRepository(db)

	err := repo.PersistBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamAssignmentRepositoryPersistBatchRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()
	repo := NewExamAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exam_assignments")).
		WillReturnError(assertErrBoom{})
	mock.ExpectRollback()

	batch := []examdomain.Assignment{{ExamRequestID: "req-1", PrimaryRoomID: "room-1"}}
	err := repo.PersistBatch(context.Background(), batch)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEncodeAdditionalRoomsKeepsOrder(t *testing.T) {
	encoded, err := encodeAdditionalRooms([]string{"room-2", "room-3"})
	require.NoError(t, err)
	assert.JSONEq(t, `["room-2","room-3"]`, string(encoded))
}

func TestEncodeAdditionalRoomsEmptyIsNullMarker(t *testing.T) {
	encoded, err := encodeAdditionalRooms(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(encoded))
}

type assertErrBoom struct{}

func (assertErrBoom) Error() string { return "boom" }
