package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/models"
)

type mockExamRequestWriter struct {
	created []models.ExamRequest
}

func (m *mockExamRequestWriter) Create(ctx context.Context, request *models.ExamRequest) error {
	m.created = append(m.created, *request)
	return nil
}

func newIngestionService() (*ExamIngestionService, *mockExamRequestWriter) {
	repo := &mockExamRequestWriter{}
	return NewExamIngestionService(repo, validator.New(), nil), repo
}

func TestIngestRowNormalizesTurkishDifficultyLabel(t *testing.T) {
	svc, repo := newIngestionService()
	row := ExamRequestRow{
		CourseCode: "CS101", ClassLevel: "2", Instructor: "Dr. A",
		StudentCount: "40", DurationMinutes: "90", NeedsComputer: "Evet",
		DifficultyLabel: "Zor", PreferredDates: "2024-01-15, 2024-01-16,",
		AllowedRoomNames: "R1, R2", DepartmentID: "dept-1",
	}
	err := svc.IngestRow(context.Background(), row)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "hard", created.Difficulty)
	assert.True(t, created.NeedsComputer)
	assert.Equal(t, "2024-01-15,2024-01-16", created.PreferredDates)
	assert.Equal(t, "R1,R2", created.AllowedRoomNames)
	assert.Equal(t, "pending", created.Status)
}

func TestIngestRowVeryHardCollapsesToHard(t *testing.T) {
	svc, repo := newIngestionService()
	row := ExamRequestRow{
		CourseCode: "CS102", ClassLevel: "1", Instructor: "Dr. B",
		StudentCount: "10", DurationMinutes: "60", DifficultyLabel: "very_hard",
		AllowedRoomNames: "R1", DepartmentID: "dept-1",
	}
	require.NoError(t, svc.IngestRow(context.Background(), row))
	assert.Equal(t, "hard", repo.created[0].Difficulty)
}

func TestIngestRowRejectsUnknownDifficulty(t *testing.T) {
	svc, _ := newIngestionService()
	row := ExamRequestRow{
		CourseCode: "CS103", ClassLevel: "1", Instructor: "Dr. C",
		StudentCount: "10", DurationMinutes: "60", DifficultyLabel: "impossible",
		AllowedRoomNames: "R1", DepartmentID: "dept-1",
	}
	err := svc.IngestRow(context.Background(), row)
	assert.Error(t, err)
}

func TestIngestRowRejectsNonIntegerFields(t *testing.T) {
	svc, _ := newIngestionService()
	row := ExamRequestRow{
		CourseCode: "CS104", ClassLevel: "two", Instructor: "Dr. D",
		StudentCount: "10", DurationMinutes: "60", DifficultyLabel: "easy",
		AllowedRoomNames: "R1", DepartmentID: "dept-1",
	}
	err := svc.IngestRow(context.Background(), row)
	assert.Error(t, err)
}

func TestIngestRowRequiresFields(t *testing.T) {
	svc, _ := newIngestionService()
	err := svc.IngestRow(context.Background(), ExamRequestRow{})
	assert.Error(t, err)
}

func TestIngestBatchCollectsPerRowErrors(t *testing.T) {
	svc, repo := newIngestionService()
	rows := []ExamRequestRow{
		{CourseCode: "OK", ClassLevel: "1", Instructor: "Dr. A", StudentCount: "10", DurationMinutes: "60", DifficultyLabel: "Kolay", AllowedRoomNames: "R1", DepartmentID: "dept-1"},
		{CourseCode: "BAD", ClassLevel: "1", Instructor: "Dr. A", StudentCount: "10", DurationMinutes: "60", DifficultyLabel: "unknown", AllowedRoomNames: "R1", DepartmentID: "dept-1"},
	}
	errs := svc.IngestBatch(context.Background(), rows)
	require.Len(t, errs, 2)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.Len(t, repo.created, 1)
}
