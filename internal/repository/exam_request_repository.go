package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/models"
)

const examRequestStatusPending = "pending"

// ExamRequestRepository lists exam requests awaiting placement.
type ExamRequestRepository struct {
	db *sqlx.DB
}

// NewExamRequestRepository constructs an exam request repository.
func NewExamRequestRepository(db *sqlx.DB) *ExamRequestRepository {
	return &ExamRequestRepository{db: db}
}

// ListPending implements examscheduler.RequestLister: it returns every
// request still in pending status, optionally scoped to one department.
func (r *ExamRequestRepository) ListPending(ctx context.Context, departmentID *string) ([]examdomain.ExamRequest, error) {
	query := `SELECT id, course_code, class_level, instructor, student_count, duration_minutes, needs_computer,
difficulty, preferred_dates, allowed_room_names, department_id, status, created_at, updated_at
FROM exam_requests WHERE status = $1`
	args := []interface{}{examRequestStatusPending}
	if departmentID != nil {
		query += " AND department_id = $2"
		args = append(args, *departmentID)
	}
	query += " ORDER BY created_at ASC"

	var rows []models.ExamRequest
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending exam requests: %w", err)
	}

	requests := make([]examdomain.ExamRequest, 0, len(rows))
	for _, row := range rows {
		req, err := rowToRequest(row)
		if err != nil {
			return nil, fmt.Errorf("exam request %s: %w", row.ID, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Create inserts one ingested exam request row as pending.
func (r *ExamRequestRepository) Create(ctx context.Context, request *models.ExamRequest) error {
	if request.Status == "" {
		request.Status = examRequestStatusPending
	}
	request.CreatedAt = time.Now().UTC()
	request.UpdatedAt = request.CreatedAt

	const query = `INSERT INTO exam_requests (id, course_code, class_level, instructor, student_count, duration_minutes, needs_computer,
difficulty, preferred_dates, allowed_room_names, department_id, status, created_at, updated_at)
VALUES (:id, :course_code, :class_level, :instructor, :student_count, :duration_minutes, :needs_computer,
:difficulty, :preferred_dates, :allowed_room_names, :department_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("insert exam request: %w", err)
	}
	return nil
}

func rowToRequest(row models.ExamRequest) (examdomain.ExamRequest, error) {
	difficulty, err := parseDifficulty(row.Difficulty)
	if err != nil {
		return examdomain.ExamRequest{}, err
	}

	dates, err := parseDateList(row.PreferredDates)
	if err != nil {
		return examdomain.ExamRequest{}, fmt.Errorf("parse preferred_dates: %w", err)
	}

	return examdomain.ExamRequest{
		ID:               row.ID,
		CourseCode:       row.CourseCode,
		ClassLevel:       row.ClassLevel,
		Instructor:       row.Instructor,
		StudentCount:     row.StudentCount,
		DurationMinutes:  row.DurationMinutes,
		NeedsComputer:    row.NeedsComputer,
		Difficulty:       difficulty,
		PreferredDates:   dates,
		AllowedRoomNames: splitCSV(row.AllowedRoomNames),
		DepartmentID:     row.DepartmentID,
		Status:           examdomain.StatusPending,
	}, nil
}

func parseDifficulty(raw string) (examdomain.Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return examdomain.Easy, nil
	case "normal":
		return examdomain.Normal, nil
	case "hard":
		return examdomain.Hard, nil
	default:
		return 0, fmt.Errorf("unrecognized difficulty %q", raw)
	}
}

func parseDateList(raw string) ([]examtime.Date, error) {
	parts := splitCSV(raw)
	dates := make([]examtime.Date, 0, len(parts))
	for _, p := range parts {
		d, err := examtime.ParseDate(p)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
