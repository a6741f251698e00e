package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/models"
)

const (
	settingExamWeekStart = "exam_week_start"
	settingExamWeekEnd   = "exam_week_end"
)

// ExamWindowRepository loads the examination window from the settings
// table, stored as the string pair exam_week_start/exam_week_end.
type ExamWindowRepository struct {
	db *sqlx.DB
}

// NewExamWindowRepository constructs an exam window repository.
func NewExamWindowRepository(db *sqlx.DB) *ExamWindowRepository {
	return &ExamWindowRepository{db: db}
}

// Load implements examscheduler.ExamWindowLoader. Absence of either
// setting is an error; the Scheduler surfaces it as a missing
// configuration and aborts the run before examining requests.
func (r *ExamWindowRepository) Load(ctx context.Context) (examdomain.ExamWindow, error) {
	query, args, err := sqlx.In(`SELECT key, value FROM settings WHERE key IN (?)`, []string{settingExamWeekStart, settingExamWeekEnd})
	if err != nil {
		return examdomain.ExamWindow{}, fmt.Errorf("build exam window settings query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []models.Setting
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return examdomain.ExamWindow{}, fmt.Errorf("load exam window settings: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	startRaw, ok := values[settingExamWeekStart]
	if !ok {
		return examdomain.ExamWindow{}, fmt.Errorf("setting %s not configured", settingExamWeekStart)
	}
	endRaw, ok := values[settingExamWeekEnd]
	if !ok {
		return examdomain.ExamWindow{}, fmt.Errorf("setting %s not configured", settingExamWeekEnd)
	}

	start, err := examtime.ParseDate(startRaw)
	if err != nil {
		return examdomain.ExamWindow{}, fmt.Errorf("parse %s: %w", settingExamWeekStart, err)
	}
	end, err := examtime.ParseDate(endRaw)
	if err != nil {
		return examdomain.ExamWindow{}, fmt.Errorf("parse %s: %w", settingExamWeekEnd, err)
	}
	if end.Before(start) {
		return examdomain.ExamWindow{}, fmt.Errorf("exam window end %s precedes start %s", endRaw, startRaw)
	}
	return examdomain.ExamWindow{Start: start, End: end}, nil
}
