package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examscheduler"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/export"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/storage"
)

// ExamReportExport is a rendered run report file, ready for download
// through its signed URL.
type ExamReportExport struct {
	RunID     string
	Format    string
	Path      string
	SignedURL string
	ExpiresAt time.Time
}

// ExamReportExportConfig tunes export file retention.
type ExamReportExportConfig struct {
	FileTTL         time.Duration
	CleanupInterval time.Duration
}

// ExamReportExportService renders a completed run's RunReport to CSV or
// PDF for human distribution and persists it behind a signed URL, distinct
// from the out-of-scope Excel *schedule* ingestion/export named in §1.
type ExamReportExportService struct {
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	cfg     ExamReportExportConfig
	logger  *zap.Logger
}

// NewExamReportExportService wires the CSV/PDF renderers to the storage
// and signed-URL backend.
func NewExamReportExportService(csvExporter *export.CSVExporter, pdfExporter *export.PDFExporter, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ExamReportExportConfig, logger *zap.Logger) *ExamReportExportService {
	if cfg.FileTTL <= 0 {
		cfg.FileTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamReportExportService{csv: csvExporter, pdf: pdfExporter, storage: store, signer: signer, cfg: cfg, logger: logger}
}

// StartCleanup boots a goroutine that purges expired export files
// periodically until ctx is done. A non-positive interval disables it.
func (s *ExamReportExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.storage.CleanupOlderThan(s.cfg.FileTTL)
				if err != nil {
					s.logger.Warn("exam report export cleanup failed", zap.Error(err))
					continue
				}
				if len(deleted) > 0 {
					s.logger.Info("exam report exports purged", zap.Int("count", len(deleted)))
				}
			}
		}
	}()
}

// RenderCSV renders report's outcomes to CSV and returns a signed
// download link.
func (s *ExamReportExportService) RenderCSV(runID string, report examscheduler.RunReport) (ExamReportExport, error) {
	data, err := s.csv.Render(reportDataset(report))
	if err != nil {
		return ExamReportExport{}, fmt.Errorf("render exam report csv: %w", err)
	}
	return s.persist(runID, "csv", data)
}

// RenderPDF renders report's outcomes to PDF and returns a signed
// download link.
func (s *ExamReportExportService) RenderPDF(runID string, report examscheduler.RunReport) (ExamReportExport, error) {
	data, err := s.pdf.Render(reportDataset(report), "Exam Schedule Run Report")
	if err != nil {
		return ExamReportExport{}, fmt.Errorf("render exam report pdf: %w", err)
	}
	return s.persist(runID, "pdf", data)
}

func (s *ExamReportExportService) persist(runID, format string, data []byte) (ExamReportExport, error) {
	filename := fmt.Sprintf("exam-schedule/%s-%s.%s", runID, uuid.NewString(), format)
	relPath, err := s.storage.Save(filename, data)
	if err != nil {
		return ExamReportExport{}, fmt.Errorf("persist exam report export: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(runID, relPath)
	if err != nil {
		return ExamReportExport{}, fmt.Errorf("sign exam report export: %w", err)
	}

	return ExamReportExport{RunID: runID, Format: format, Path: relPath, SignedURL: token, ExpiresAt: expiresAt}, nil
}

func reportDataset(report examscheduler.RunReport) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"course_code", "request_id", "scheduled", "room", "date", "start_time", "end_time", "reason"},
	}
	for _, outcome := range report.Outcomes {
		row := map[string]string{
			"course_code": outcome.CourseCode,
			"request_id":  outcome.RequestID,
			"scheduled":   strconv.FormatBool(outcome.Scheduled),
			"reason":      outcome.Reason,
		}
		if outcome.Scheduled {
			row["room"] = outcome.Assignment.PrimaryRoomID
			row["date"] = outcome.Assignment.ScheduledDate.String()
			row["start_time"] = outcome.Assignment.StartTime.String()
			row["end_time"] = outcome.Assignment.EndTime.String()
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset
}
