package handler

import (
	"context"

	activityapp "github.com/foresy/backend/internal/application/activity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler handles monthly activity report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *activityapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *activityapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create opens a draft report for a month
func (h *ReportHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req activityapp.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, report)
}

// GetByID returns a single report
func (h *ReportHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	report, err := h.reportService.Get(c.Request.Context(), reportID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// List returns the caller's reports
func (h *ReportHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req activityapp.ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	page, err := h.reportService.List(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Submit moves a draft report to SUBMITTED
func (h *ReportHandler) Submit(c *gin.Context) {
	h.transition(c, h.reportService.Submit)
}

// Lock moves a submitted report to LOCKED
func (h *ReportHandler) Lock(c *gin.Context) {
	h.transition(c, h.reportService.Lock)
}

func (h *ReportHandler) transition(c *gin.Context, apply func(ctx context.Context, reportID, userID uuid.UUID) (*activityapp.ReportResponse, error)) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	report, err := apply(c.Request.Context(), reportID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}
