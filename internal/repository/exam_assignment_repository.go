package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/models"
)

// ExamAssignmentRepository persists a Scheduler run's committed batch and
// flips the corresponding requests to planned in the same transaction.
type ExamAssignmentRepository struct {
	db *sqlx.DB
}

// NewExamAssignmentRepository constructs an exam assignment repository.
func NewExamAssignmentRepository(db *sqlx.DB) *ExamAssignmentRepository {
	return &ExamAssignmentRepository{db: db}
}

// PersistBatch implements examscheduler.AssignmentPersister: the whole
// batch commits in a single transaction, matching the engine's
// single-final-commit discipline (no partial writes on failure).
func (r *ExamAssignmentRepository) PersistBatch(ctx context.Context, batch []examdomain.Assignment) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin persist exam assignments: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.insertAssignments(ctx, tx, batch); err != nil {
		return err
	}
	if err = r.markRequestsPlanned(ctx, tx, batch); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit persist exam assignments: %w", err)
	}
	return nil
}

func (r *ExamAssignmentRepository) insertAssignments(ctx context.Context, tx *sqlx.Tx, batch []examdomain.Assignment) error {
	now := time.Now().UTC()
	const query = `INSERT INTO exam_assignments (id, exam_request_id, primary_room_id, additional_room_ids, scheduled_date, start_time, end_time, created_at)
VALUES (:id, :exam_request_id, :primary_room_id, :additional_room_ids, :scheduled_date, :start_time, :end_time, :created_at)`

	rows := make([]models.ExamAssignment, 0, len(batch))
	for _, a := range batch {
		additional, err := encodeAdditionalRooms(a.AdditionalRoomIDs)
		if err != nil {
			return fmt.Errorf("encode additional rooms for request %s: %w", a.ExamRequestID, err)
		}
		rows = append(rows, models.ExamAssignment{
			ID:                uuid.NewString(),
			ExamRequestID:     a.ExamRequestID,
			PrimaryRoomID:     a.PrimaryRoomID,
			AdditionalRoomIDs: additional,
			ScheduledDate:     a.ScheduledDate.String(),
			StartTime:         a.StartTime.String(),
			EndTime:           a.EndTime.String(),
			CreatedAt:         now,
		})
	}

	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("insert exam assignment for request %s: %w", row.ExamRequestID, err)
		}
	}
	return nil
}

// encodeAdditionalRooms serializes the ordered additional-room list as a
// JSON array, or the null marker when there are none. The column keeps
// this layout for backward compatibility with existing readers, which
// reconstruct the room announcement in stored order.
func encodeAdditionalRooms(roomIDs []string) (types.JSONText, error) {
	if len(roomIDs) == 0 {
		return types.JSONText(`null`), nil
	}
	raw, err := json.Marshal(roomIDs)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}

// ClearPendingAssignments deletes existing assignments for in-scope
// requests and resets those requests to pending, for the handler's
// forceRegenerate path (SPEC_FULL §6): the core engine never does this
// itself, since it only ever appends via PersistBatch.
func (r *ExamAssignmentRepository) ClearPendingAssignments(ctx context.Context, departmentID *string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear exam assignments: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	deleteQuery := `DELETE FROM exam_assignments WHERE exam_request_id IN (SELECT id FROM exam_requests WHERE status = 'planned'`
	resetQuery := `UPDATE exam_requests SET status = 'pending' WHERE status = 'planned'`
	args := []interface{}{}
	if departmentID != nil {
		deleteQuery += " AND department_id = $1"
		resetQuery += " AND department_id = $1"
		args = append(args, *departmentID)
	}
	deleteQuery += ")"

	if _, err = tx.ExecContext(ctx, deleteQuery, args...); err != nil {
		return fmt.Errorf("clear exam assignments: %w", err)
	}
	if _, err = tx.ExecContext(ctx, resetQuery, args...); err != nil {
		return fmt.Errorf("reset exam requests to pending: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit clear exam assignments: %w", err)
	}
	return nil
}

func (r *ExamAssignmentRepository) markRequestsPlanned(ctx context.Context, tx *sqlx.Tx, batch []examdomain.Assignment) error {
	const query = `UPDATE exam_requests SET status = 'planned', updated_at = $1 WHERE id = $2`
	now := time.Now().UTC()
	for _, a := range batch {
		if _, err := tx.ExecContext(ctx, query, now, a.ExamRequestID); err != nil {
			return fmt.Errorf("mark exam request %s planned: %w", a.ExamRequestID, err)
		}
	}
	return nil
}
