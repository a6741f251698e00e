package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/models"
)

// ExamRoomRepository resolves bookable rooms by name.
type ExamRoomRepository struct {
	db *sqlx.DB
}

// NewExamRoomRepository constructs an exam room repository.
func NewExamRoomRepository(db *sqlx.DB) *ExamRoomRepository {
	return &ExamRoomRepository{db: db}
}

// ListByName implements examscheduler.RoomFinder: it resolves the given
// room names to their current Room records, keyed by name. Names with no
// matching row are simply absent from the result; the Scheduler's room
// packer treats that as ineligible rather than an error. Inactive rooms
// are returned with Active false, and the room packer drops them.
func (r *ExamRoomRepository) ListByName(ctx context.Context, names []string) (map[string]examdomain.Room, error) {
	result := make(map[string]examdomain.Room, len(names))
	if len(names) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, capacity, has_computer, active, department_id, created_at FROM exam_rooms WHERE name IN (?)`, names)
	if err != nil {
		return nil, fmt.Errorf("build room lookup query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []models.ExamRoom
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rooms by name: %w", err)
	}

	for _, row := range rows {
		result[row.Name] = examdomain.Room{
			ID:           row.ID,
			Name:         row.Name,
			Capacity:     row.Capacity,
			HasComputer:  row.HasComputer,
			Active:       row.Active,
			DepartmentID: row.DepartmentID,
		}
	}
	return result, nil
}
