package examscheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examconstraint"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
)

// Outcome is one request's final placement result.
type Outcome struct {
	RequestID  string
	CourseCode string
	Scheduled  bool
	Assignment examdomain.Assignment
	Reason     string // empty when Scheduled
}

// RunReport is the structured result of one Scheduler run (spec §4.5).
type RunReport struct {
	TotalRequests int
	Scheduled     int
	Failed        int
	Outcomes      []Outcome
}

// Failures returns the subset of Outcomes that were not scheduled.
func (r RunReport) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Scheduled {
			failed = append(failed, o)
		}
	}
	return failed
}

// ScheduleRunner orchestrates one scheduling run end to end: it loads the
// window, rooms and pending requests through the Repository Port,
// schedules entirely in memory, and performs a single final commit.
type ScheduleRunner struct {
	window      ExamWindowLoader
	rooms       RoomFinder
	requests    RequestLister
	assignments AssignmentPersister
	logger      *zap.Logger
	metrics     RunMetricsRecorder
}

// RunMetricsRecorder receives scheduler observability signals. A nil
// recorder is safe to embed; see NoopMetricsRecorder.
type RunMetricsRecorder interface {
	RequestScheduled(difficulty examdomain.Difficulty)
	RequestFailed(reason string)
	RunCompleted(report RunReport)
}

// NewScheduleRunner wires the Scheduler's Repository Port dependencies.
func NewScheduleRunner(window ExamWindowLoader, rooms RoomFinder, requests RequestLister, assignments AssignmentPersister, logger *zap.Logger, metrics RunMetricsRecorder) *ScheduleRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NoopMetricsRecorder{}
	}
	return &ScheduleRunner{window: window, rooms: rooms, requests: requests, assignments: assignments, logger: logger, metrics: metrics}
}

// Run executes one scheduling pass for the given department filter (nil
// means every department). Run is cooperative-cancellation aware: ctx is
// checked between requests and between candidate dates; a cancellation
// discards the in-memory batch without committing anything.
func (s *ScheduleRunner) Run(ctx context.Context, departmentID *string) (RunReport, error) {
	window, err := s.window.Load(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("%w: %v", ErrConfigMissing, err)
	}

	pending, err := s.requests.ListPending(ctx, departmentID)
	if err != nil {
		return RunReport{}, fmt.Errorf("examscheduler: list pending requests: %w", err)
	}

	ordered := orderByPriority(pending)
	ledger := examdomain.NewDayLedger()
	batch := make([]examdomain.Assignment, 0, len(ordered))
	report := RunReport{TotalRequests: len(ordered)}

	for _, req := range ordered {
		if ctx.Err() != nil {
			return RunReport{}, ctx.Err()
		}

		outcome, err := s.scheduleOne(ctx, req, window, ledger)
		if err != nil {
			return RunReport{}, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Scheduled {
			report.Scheduled++
			batch = append(batch, outcome.Assignment)
			s.metrics.RequestScheduled(req.Difficulty)
			s.logger.Info("exam scheduled",
				zap.String("request_id", req.ID),
				zap.String("course_code", req.CourseCode),
				zap.String("date", outcome.Assignment.ScheduledDate.String()),
				zap.String("start", outcome.Assignment.StartTime.String()),
			)
		} else {
			report.Failed++
			s.metrics.RequestFailed(outcome.Reason)
			s.logger.Warn("exam not scheduled",
				zap.String("request_id", req.ID),
				zap.String("course_code", req.CourseCode),
				zap.String("reason", outcome.Reason),
			)
		}
	}

	if len(batch) > 0 {
		if err := s.assignments.PersistBatch(ctx, batch); err != nil {
			return RunReport{}, fmt.Errorf("%w: %v", ErrPersistFailed, err)
		}
	}

	s.metrics.RunCompleted(report)
	return report, nil
}

// scheduleOne runs the candidate search for a single request: it enumerates
// dates and start times in the deterministic order spec §4.5 defines,
// delegating feasibility to the Constraint Engine and capacity to the room
// packer, and commits the first feasible slot found.
func (s *ScheduleRunner) scheduleOne(ctx context.Context, req examdomain.ExamRequest, window examdomain.ExamWindow, ledger *examdomain.DayLedger) (Outcome, error) {
	outcome := Outcome{RequestID: req.ID, CourseCode: req.CourseCode}

	dates := candidateDates(req, window)
	if len(dates) == 0 {
		outcome.Reason = ReasonNoValidDates
		return outcome, nil
	}

	if len(req.AllowedRoomNames) == 0 {
		outcome.Reason = ReasonNoEligibleRooms
		return outcome, nil
	}

	firstReason := ""
	recordFirst := func(reason string) {
		if firstReason == "" {
			firstReason = reason
		}
	}

	byName, err := s.rooms.ListByName(ctx, req.AllowedRoomNames)
	if err != nil {
		return outcome, fmt.Errorf("examscheduler: list rooms by name: %w", err)
	}

	for _, date := range dates {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		for _, start := range candidateStarts(req, window, date) {
			end := start.AddMinutes(req.DurationMinutes)

			candidateRooms := eligibleRooms(req, byName, ledger, date, start, end)
			packed := packRooms(candidateRooms, req.StudentCount)
			if !packed.ok {
				recordFirst(packed.reason)
				continue
			}

			roomIDs := append([]string{packed.primary.ID}, roomIDsOf(packed.additional)...)
			candidate := examconstraint.Candidate{
				Request: req, Window: window, Date: date,
				Start: start, End: end, ProposedRoomIDs: roomIDs,
			}
			result := examconstraint.IsFeasible(candidate, ledger)
			if !result.Feasible {
				recordFirst(result.Reason.String())
				continue
			}

			assignment := examdomain.Assignment{
				ExamRequestID:     req.ID,
				PrimaryRoomID:     packed.primary.ID,
				AdditionalRoomIDs: roomIDsOf(packed.additional),
				ScheduledDate:     date,
				StartTime:         start,
				EndTime:           end,
			}
			ledger.Commit(req, assignment)
			outcome.Scheduled = true
			outcome.Assignment = assignment
			return outcome, nil
		}
	}

	if firstReason == "" {
		firstReason = ReasonNoEligibleRooms
	}
	outcome.Reason = firstReason
	return outcome, nil
}

func roomIDsOf(rooms []examdomain.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}

// NoopMetricsRecorder discards every signal; useful for tests and callers
// that don't wire Prometheus.
type NoopMetricsRecorder struct{}

func (NoopMetricsRecorder) RequestScheduled(examdomain.Difficulty) {}
func (NoopMetricsRecorder) RequestFailed(string)                   {}
func (NoopMetricsRecorder) RunCompleted(RunReport)                 {}
