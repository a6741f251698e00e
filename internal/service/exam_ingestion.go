package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/models"
	appErrors "github.com/rabiauynk/exam-orchestrator-planner/pkg/errors"
)

type examRequestWriter interface {
	Create(ctx context.Context, request *models.ExamRequest) error
}

// ExamRequestRow is one row of tabular exam-request input (an Excel sheet
// or CSV upload, per the ingestion contract named in SPEC_FULL §6). Fields
// are kept as raw strings because source spreadsheets are inconsistently
// typed; ExamIngestionService normalizes them before persistence.
type ExamRequestRow struct {
	CourseCode       string `validate:"required"`
	ClassLevel       string `validate:"required"`
	Instructor       string `validate:"required"`
	StudentCount     string `validate:"required"`
	DurationMinutes  string `validate:"required"`
	NeedsComputer    string
	DifficultyLabel  string `validate:"required"`
	PreferredDates   string
	AllowedRoomNames string `validate:"required"`
	DepartmentID     string `validate:"required"`
}

// ExamIngestionService turns raw tabular rows into normalized, pending
// ExamRequest records. The Scheduler itself never parses spreadsheet
// input; this is the "ingestion" collaborator spec.md §6 treats as
// external to the core engine.
type ExamIngestionService struct {
	repo      examRequestWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamIngestionService constructs the ingestion service.
func NewExamIngestionService(repo examRequestWriter, validate *validator.Validate, logger *zap.Logger) *ExamIngestionService {
	return &ExamIngestionService{repo: repo, validator: validate, logger: logger}
}

// difficultyLabels maps the user-facing synonyms onto the closed
// easy/normal/hard vocabulary the core domain understands. very_hard
// collapses onto hard, mirroring the original tool's later revision that
// dropped a fourth tier.
var difficultyLabels = map[string]string{
	"easy": "easy", "kolay": "easy",
	"normal": "normal", "orta": "normal",
	"hard": "hard", "zor": "hard", "very_hard": "hard", "veryhard": "hard",
}

// truthyValues is the set of needs-computer spreadsheet cell values
// treated as true, case-insensitively.
var truthyValues = map[string]bool{
	"1": true, "true": true, "yes": true, "y": true, "evet": true,
}

// IngestRow normalizes and persists one row. It returns a validation error
// (appErrors.ErrValidation) for malformed input rather than a bare error,
// so a batch-upload handler can report per-row failures to the caller.
func (s *ExamIngestionService) IngestRow(ctx context.Context, row ExamRequestRow) error {
	if err := s.validator.Struct(row); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam request row")
	}

	classLevel, err := strconv.Atoi(strings.TrimSpace(row.ClassLevel))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "class_level must be an integer")
	}
	studentCount, err := strconv.Atoi(strings.TrimSpace(row.StudentCount))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student_count must be an integer")
	}
	duration, err := strconv.Atoi(strings.TrimSpace(row.DurationMinutes))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "duration_minutes must be an integer")
	}

	difficulty, ok := difficultyLabels[strings.ToLower(strings.TrimSpace(row.DifficultyLabel))]
	if !ok {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("unrecognized difficulty label %q", row.DifficultyLabel))
	}

	preferredDates := normalizeList(row.PreferredDates)
	if preferredDates != "" {
		for _, raw := range strings.Split(preferredDates, ",") {
			if _, err := examtime.ParseDate(raw); err != nil {
				return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "preferred_dates must be YYYY-MM-DD dates")
			}
		}
	}

	request := &models.ExamRequest{
		ID:               uuid.NewString(),
		CourseCode:       strings.TrimSpace(row.CourseCode),
		ClassLevel:       classLevel,
		Instructor:       strings.TrimSpace(row.Instructor),
		StudentCount:     studentCount,
		DurationMinutes:  duration,
		NeedsComputer:    truthyValues[strings.ToLower(strings.TrimSpace(row.NeedsComputer))],
		Difficulty:       difficulty,
		PreferredDates:   preferredDates,
		AllowedRoomNames: normalizeList(row.AllowedRoomNames),
		DepartmentID:     strings.TrimSpace(row.DepartmentID),
		Status:           "pending",
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return fmt.Errorf("persist ingested exam request: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("exam request ingested",
			zap.String("course_code", request.CourseCode),
			zap.String("difficulty", request.Difficulty),
		)
	}
	return nil
}

// IngestBatch ingests every row, collecting per-row errors rather than
// aborting on the first failure so a caller can surface a full report.
func (s *ExamIngestionService) IngestBatch(ctx context.Context, rows []ExamRequestRow) []error {
	errs := make([]error, len(rows))
	for i, row := range rows {
		errs[i] = s.IngestRow(ctx, row)
	}
	return errs
}

// normalizeList re-joins a comma-separated cell with consistent spacing
// after trimming each element, dropping empties produced by trailing
// commas in spreadsheet exports.
func normalizeList(raw string) string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
