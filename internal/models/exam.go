package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Setting is one key/value configuration row; the examination window is
// stored as the exam_week_start/exam_week_end pair.
type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// ExamRoom is the row-level representation of a bookable room.
type ExamRoom struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Capacity     int       `db:"capacity" json:"capacity"`
	HasComputer  bool      `db:"has_computer" json:"has_computer"`
	Active       bool      `db:"active" json:"active"`
	DepartmentID *string   `db:"department_id" json:"department_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ExamRequest is the row-level representation of one exam request awaiting
// placement.
type ExamRequest struct {
	ID               string    `db:"id" json:"id"`
	CourseCode       string    `db:"course_code" json:"course_code"`
	ClassLevel       int       `db:"class_level" json:"class_level"`
	Instructor       string    `db:"instructor" json:"instructor"`
	StudentCount     int       `db:"student_count" json:"student_count"`
	DurationMinutes  int       `db:"duration_minutes" json:"duration_minutes"`
	NeedsComputer    bool      `db:"needs_computer" json:"needs_computer"`
	Difficulty       string    `db:"difficulty" json:"difficulty"`
	PreferredDates   string    `db:"preferred_dates" json:"preferred_dates"`     // comma-separated ISO dates
	AllowedRoomNames string    `db:"allowed_room_names" json:"allowed_room_names"` // comma-separated room names
	DepartmentID     string    `db:"department_id" json:"department_id"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ExamAssignment is the row-level representation of a committed placement.
type ExamAssignment struct {
	ID                string    `db:"id" json:"id"`
	ExamRequestID     string    `db:"exam_request_id" json:"exam_request_id"`
	PrimaryRoomID     string    `db:"primary_room_id" json:"primary_room_id"`
	AdditionalRoomIDs types.JSONText `db:"additional_room_ids" json:"additional_room_ids"` // JSON array, null when absent
	ScheduledDate     string    `db:"scheduled_date" json:"scheduled_date"`
	StartTime         string    `db:"start_time" json:"start_time"`
	EndTime           string    `db:"end_time" json:"end_time"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
