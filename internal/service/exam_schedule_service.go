package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examscheduler"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/jobs"
)

// GenerateExamScheduleRequest is the inbound trigger payload (spec.md §6).
type GenerateExamScheduleRequest struct {
	DepartmentID    *string `json:"departmentId,omitempty" validate:"omitempty,min=1"`
	ForceRegenerate bool    `json:"forceRegenerate"`
}

type examAssignmentCleaner interface {
	ClearPendingAssignments(ctx context.Context, departmentID *string) error
}

// ExamScheduleService is the thin orchestration layer a handler calls
// into: it enforces the department-scoped run lock, optionally clears
// prior assignments when the caller forces regeneration, invokes the
// Scheduler, and records the outcome for later retrieval.
type ExamScheduleService struct {
	runner  *examscheduler.ScheduleRunner
	lock    *ExamSchedulerLock
	cleaner examAssignmentCleaner
	store   *examRunStore
	export  *ExamReportExportService
	logger  *zap.Logger
}

// NewExamScheduleService wires the orchestration layer. export may be nil,
// in which case Export always returns ErrExportDisabled for callers that
// never configured report rendering.
func NewExamScheduleService(runner *examscheduler.ScheduleRunner, lock *ExamSchedulerLock, cleaner examAssignmentCleaner, export *ExamReportExportService, runTTL time.Duration, logger *zap.Logger) *ExamScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamScheduleService{runner: runner, lock: lock, cleaner: cleaner, store: newExamRunStore(runTTL), export: export, logger: logger}
}

// Trigger registers a new run as pending and returns its id immediately;
// the handler enqueues the actual Execute call onto pkg/jobs.Queue so the
// HTTP request returns without waiting on the scheduling pass.
func (s *ExamScheduleService) Trigger(req GenerateExamScheduleRequest) string {
	runID := uuid.NewString()
	s.store.Save(runID, examRunRecord{Status: examRunPending, RequestedAt: time.Now()})
	return runID
}

// Execute acquires the department-scoped lock, optionally clears prior
// assignments, runs the Scheduler, and records the outcome. It is the
// body of the pkg/jobs.Job the handler enqueues for runID.
func (s *ExamScheduleService) Execute(ctx context.Context, runID string, req GenerateExamScheduleRequest) error {
	scope := "global"
	if req.DepartmentID != nil {
		scope = *req.DepartmentID
	}

	release, err := s.lock.Acquire(ctx, scope)
	if err != nil {
		s.store.Save(runID, examRunRecord{Status: examRunFailed, Err: err.Error(), RequestedAt: time.Now()})
		return err
	}
	defer release()

	if req.ForceRegenerate && s.cleaner != nil {
		if err := s.cleaner.ClearPendingAssignments(ctx, req.DepartmentID); err != nil {
			s.store.Save(runID, examRunRecord{Status: examRunFailed, Err: err.Error(), RequestedAt: time.Now()})
			s.logger.Error("exam schedule force-regenerate cleanup failed", zap.String("run_id", runID), zap.Error(err))
			return err
		}
	}

	report, err := s.runner.Run(ctx, req.DepartmentID)
	if err != nil {
		s.store.Save(runID, examRunRecord{Status: examRunFailed, Err: err.Error(), RequestedAt: time.Now()})
		s.logger.Error("exam schedule run failed", zap.String("run_id", runID), zap.Error(err))
		return err
	}

	s.store.Save(runID, examRunRecord{Status: examRunDone, Report: report, RequestedAt: time.Now()})
	return nil
}

// ExamScheduleJobHandler adapts ExamScheduleService.Execute into the
// pkg/jobs.Handler signature, for wiring into jobs.NewQueue.
func ExamScheduleJobHandler(svc *ExamScheduleService) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		req, ok := job.Payload.(GenerateExamScheduleRequest)
		if !ok {
			return fmt.Errorf("exam schedule job %s: unexpected payload type %T", job.ID, job.Payload)
		}
		return svc.Execute(ctx, job.ID, req)
	}
}

// RunResult returned to a status poll.
type RunResult struct {
	Status string
	Report examscheduler.RunReport
	Err    string
}

// ErrRunNotFound is returned when a run id is unknown or has expired.
var ErrRunNotFound = fmt.Errorf("exam schedule run not found")

// Result retrieves a run's current status.
func (s *ExamScheduleService) Result(runID string) (RunResult, error) {
	record, ok := s.store.Get(runID)
	if !ok {
		return RunResult{}, ErrRunNotFound
	}
	return RunResult{Status: string(record.Status), Report: record.Report, Err: record.Err}, nil
}

// ErrRunNotDone is returned when an export is requested before the run
// has finished (or for a run that failed).
var ErrRunNotDone = fmt.Errorf("exam schedule run not finished")

// ErrExportDisabled is returned when no export service was configured.
var ErrExportDisabled = fmt.Errorf("exam schedule report export disabled")

// Export renders a completed run's report in the given format ("csv" or
// "pdf") and returns a signed download link.
func (s *ExamScheduleService) Export(runID, format string) (ExamReportExport, error) {
	if s.export == nil {
		return ExamReportExport{}, ErrExportDisabled
	}
	record, ok := s.store.Get(runID)
	if !ok {
		return ExamReportExport{}, ErrRunNotFound
	}
	if record.Status != examRunDone {
		return ExamReportExport{}, ErrRunNotDone
	}
	if format == "pdf" {
		return s.export.RenderPDF(runID, record.Report)
	}
	return s.export.RenderCSV(runID, record.Report)
}
