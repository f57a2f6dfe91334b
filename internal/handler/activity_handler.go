package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/pkg/export"
	"github.com/noah-isme/share2teach-api/pkg/response"
)

type activityService interface {
	ListActivity(ctx context.Context) ([]models.ActivityLog, error)
	ListVisits(ctx context.Context) ([]models.PageVisit, error)
	ActivityDataset(ctx context.Context) (*export.Dataset, error)
	VisitDataset(ctx context.Context) (*export.Dataset, error)
}

// ActivityHandler exposes the audit trail and page analytics.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(svc activityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// ActivityLogs godoc
// @Summary Activity log
// @Tags Analytics
// @Produce json
// @Produce text/csv
// @Security JWTToken
// @Param format query string false "csv for a download"
// @Success 200 {array} models.ActivityLog
// @Router /activity-logs [get]
func (h *ActivityHandler) ActivityLogs(c *gin.Context) {
	if c.Query("format") == "csv" {
		h.writeCSV(c, "activity-logs", h.service.ActivityDataset)
		return
	}
	logs, err := h.service.ListActivity(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, logs)
}

// Analytics godoc
// @Summary Page visits
// @Tags Analytics
// @Produce json
// @Produce text/csv
// @Security JWTToken
// @Param format query string false "csv for a download"
// @Success 200 {array} models.PageVisit
// @Router /analytics [get]
func (h *ActivityHandler) Analytics(c *gin.Context) {
	if c.Query("format") == "csv" {
		h.writeCSV(c, "analytics", h.service.VisitDataset)
		return
	}
	visits, err := h.service.ListVisits(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, visits)
}

func (h *ActivityHandler) writeCSV(c *gin.Context, name string, load func(context.Context) (*export.Dataset, error)) {
	data, err := load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, *data); err != nil {
		_ = c.Error(err)
	}
}
