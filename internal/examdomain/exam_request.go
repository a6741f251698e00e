package examdomain

import "github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"

// RequestStatus tracks an ExamRequest's lifecycle.
type RequestStatus int

const (
	StatusPending RequestStatus = iota
	StatusPlanned
)

// ExamRequest is an immutable value object describing one exam to be
// placed. The engine consumes requests read-only and never changes Status;
// the repository marks the stored request planned when it persists the
// Assignment produced for it.
type ExamRequest struct {
	ID               string
	CourseCode       string
	ClassLevel       int // 1..4
	Instructor       string
	StudentCount     int
	DurationMinutes  int
	NeedsComputer    bool
	Difficulty       Difficulty
	PreferredDates   []examtime.Date
	AllowedRoomNames []string
	DepartmentID     string
	Status           RequestStatus
}

// DurationBucket maps duration to the Scheduler's priority bucket:
// >=120 -> 4, >=90 -> 3, >=60 -> 2, else -> 1.
func (r ExamRequest) DurationBucket() int {
	switch {
	case r.DurationMinutes >= 120:
		return 4
	case r.DurationMinutes >= 90:
		return 3
	case r.DurationMinutes >= 60:
		return 2
	default:
		return 1
	}
}

// FlexibilityPenalty is 5 - min(len(PreferredDates), 5): fewer preferred
// dates means less flexibility, so a higher priority value.
func (r ExamRequest) FlexibilityPenalty() int {
	n := len(r.PreferredDates)
	if n > 5 {
		n = 5
	}
	return 5 - n
}
