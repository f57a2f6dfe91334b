package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/middleware"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/service"
	"github.com/noah-isme/share2teach-api/pkg/response"
)

type ratingService interface {
	Rate(ctx context.Context, rater models.RaterIdentity, req dto.RateFileRequest) (float64, error)
}

type moderationService interface {
	Moderate(ctx context.Context, caller *service.Caller, req dto.ModerateDocumentRequest) (*models.Document, error)
	History(ctx context.Context, fileID int64) ([]models.ModerationRecord, error)
}

type reportService interface {
	Submit(ctx context.Context, caller *service.Caller, req dto.ReportDocumentRequest) (*models.Report, error)
	ListPending(ctx context.Context, caller *service.Caller) ([]models.ReportView, error)
	Moderate(ctx context.Context, caller *service.Caller, req dto.ModerateReportRequest) (*models.Report, error)
}

// WorkflowHandler covers ratings, moderation and reports.
type WorkflowHandler struct {
	ratings    ratingService
	moderation moderationService
	reports    reportService
}

// NewWorkflowHandler constructs the handler.
func NewWorkflowHandler(ratings ratingService, moderation moderationService, reports reportService) *WorkflowHandler {
	return &WorkflowHandler{ratings: ratings, moderation: moderation, reports: reports}
}

// RateFile godoc
// @Summary Rate a document
// @Description Accounts rate once per document; anonymous callers rate once per session
// @Tags Workflow
// @Accept json
// @Produce json
// @Param payload body dto.RateFileRequest true "Rating"
// @Success 200 {object} dto.RateFileResponse
// @Failure 400 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /rate-file [post]
func (h *WorkflowHandler) RateFile(c *gin.Context) {
	var req dto.RateFileRequest
	if !bindJSON(c, &req) {
		return
	}
	rater := models.RaterIdentity{SessionID: middleware.SessionID(c)}
	if caller := middleware.Caller(c); caller != nil {
		rater = models.RaterIdentity{UserID: caller.ID()}
	}
	avg, err := h.ratings.Rate(c.Request.Context(), rater, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RateFileResponse{Msg: "Rating submitted successfully", AverageRating: avg})
}

// ModerateDocument godoc
// @Summary Approve or reject a document
// @Tags Workflow
// @Accept json
// @Produce json
// @Security JWTToken
// @Param payload body dto.ModerateDocumentRequest true "Moderation"
// @Success 200 {object} dto.ModerateDocumentResponse
// @Failure 400 {object} response.Message
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /moderate-document [post]
func (h *WorkflowHandler) ModerateDocument(c *gin.Context) {
	var req dto.ModerateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.moderation.Moderate(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ModerateDocumentResponse{Msg: "Document moderated successfully", UpdatedFile: doc})
}

// ModerationHistory godoc
// @Summary Moderation history of a document
// @Tags Workflow
// @Produce json
// @Security JWTToken
// @Param id path int true "Document id"
// @Success 200 {array} models.ModerationRecord
// @Failure 403 {object} response.Message
// @Router /documents/{id}/moderation-history [get]
func (h *WorkflowHandler) ModerationHistory(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid document id")
	if !ok {
		return
	}
	records, err := h.moderation.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// ReportDocument godoc
// @Summary Report a document
// @Tags Workflow
// @Accept json
// @Produce json
// @Param payload body dto.ReportDocumentRequest true "Report"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /report-document [post]
func (h *WorkflowHandler) ReportDocument(c *gin.Context) {
	var req dto.ReportDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.reports.Submit(c.Request.Context(), middleware.Caller(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Msg(c, http.StatusCreated, "Report submitted successfully")
}

// ListReports godoc
// @Summary Pending reports
// @Tags Workflow
// @Produce json
// @Security JWTToken
// @Success 200 {array} models.ReportView
// @Router /reports [get]
func (h *WorkflowHandler) ListReports(c *gin.Context) {
	reports, err := h.reports.ListPending(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reports)
}

// ModerateReport godoc
// @Summary Resolve or reject a report
// @Tags Workflow
// @Accept json
// @Produce json
// @Security JWTToken
// @Param payload body dto.ModerateReportRequest true "Decision"
// @Success 200 {object} dto.ModerateReportResponse
// @Failure 400 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /moderate-report [post]
func (h *WorkflowHandler) ModerateReport(c *gin.Context) {
	var req dto.ModerateReportRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.reports.Moderate(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ModerateReportResponse{
		Msg:    fmt.Sprintf("Report has been %s.", report.Status),
		Report: report,
	})
}
