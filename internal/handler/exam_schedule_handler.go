package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/service"
	appErrors "github.com/rabiauynk/exam-orchestrator-planner/pkg/errors"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/jobs"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/response"
)

const examScheduleJobType = "exam.schedule.generate"

// ExamScheduleHandler exposes the exam scheduling trigger and polling
// routes (spec.md §6, SPEC_FULL §6).
type ExamScheduleHandler struct {
	service   *service.ExamScheduleService
	queue     *jobs.Queue
	validator *validator.Validate
}

// NewExamScheduleHandler constructs the handler. queue must already be
// started by the caller (see cmd wiring); the handler only enqueues.
func NewExamScheduleHandler(svc *service.ExamScheduleService, queue *jobs.Queue, validate *validator.Validate) *ExamScheduleHandler {
	return &ExamScheduleHandler{service: svc, queue: queue, validator: validate}
}

// Generate godoc
// @Summary Trigger an exam schedule generation run
// @Tags ExamSchedule
// @Accept json
// @Produce json
// @Param payload body service.GenerateExamScheduleRequest true "Generate request"
// @Success 202 {object} response.Envelope
// @Router /exam-schedule/generate [post]
func (h *ExamScheduleHandler) Generate(c *gin.Context) {
	var req service.GenerateExamScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	runID := h.service.Trigger(req)
	job := jobs.Job{ID: runID, Type: examScheduleJobType, Payload: req}
	if err := h.queue.Enqueue(job); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue exam schedule run"))
		return
	}

	response.JSON(c, http.StatusAccepted, gin.H{"runId": runID}, nil)
}

// Status godoc
// @Summary Poll an exam schedule generation run
// @Tags ExamSchedule
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /exam-schedule/runs/{id} [get]
func (h *ExamScheduleHandler) Status(c *gin.Context) {
	result, err := h.service.Result(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "run not found"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Render a completed run's report to CSV or PDF
// @Tags ExamSchedule
// @Produce json
// @Param id path string true "Run ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {object} response.Envelope
// @Router /exam-schedule/runs/{id}/export [get]
func (h *ExamScheduleHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	result, err := h.service.Export(c.Param("id"), format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export unavailable"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
