package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/share2teach-api/internal/middleware"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/service"
	"github.com/noah-isme/share2teach-api/pkg/ratelimit"
)

type tokenRevalidator interface {
	Revalidate(ctx context.Context, rawToken string) (*models.JWTClaims, error)
}

type visitRecorder interface {
	Visit(ctx context.Context, userID *int64, page string)
}

// Routes bundles everything RegisterRoutes mounts.
type Routes struct {
	Tokens              tokenRevalidator
	Sessions            *middleware.Sessions
	UploadLimiter       ratelimit.Limiter
	UploadLimitFailOpen bool
	Visits              visitRecorder
	Metrics             *service.MetricsService
	Logger              *zap.Logger

	Auth      *AuthHandler
	Documents *DocumentHandler
	Workflow  *WorkflowHandler
	Activity  *ActivityHandler
	FAQ       *FAQHandler
}

// RegisterRoutes mounts the public API on r.
func RegisterRoutes(r gin.IRouter, rt Routes) {
	authorize := middleware.Authorize(rt.Tokens)
	optional := middleware.OptionalAuth(rt.Tokens)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator)
	contributors := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator, models.RoleEducator)

	r.POST("/register", rt.Auth.Register)
	r.POST("/login", rt.Auth.Login)
	r.POST("/logout", authorize, rt.Auth.Logout)
	r.POST("/forgot-password", rt.Auth.ForgotPassword)
	r.POST("/reset-password/:token", rt.Auth.ResetPassword)
	r.PUT("/admin/assign-role", authorize, middleware.RequireRoles(models.RoleAdmin), rt.Auth.AssignRole)
	r.POST("/active_user", authorize, rt.Auth.ActiveUser)

	r.GET("/documents", optional, middleware.PageVisit(rt.Visits, models.PageDocumentsList), rt.Documents.List)
	r.POST("/documents", middleware.RateLimit(rt.UploadLimiter, rt.UploadLimitFailOpen, rt.Metrics, rt.Logger),
		authorize, contributors, rt.Documents.Upload)
	r.GET("/documents/:id", optional, rt.Documents.Get)
	r.GET("/documents/:id/moderation-history", authorize, staff, rt.Workflow.ModerationHistory)
	r.PUT("/documents/:id", authorize, contributors, rt.Documents.Update)
	r.DELETE("/documents/:id", authorize, contributors, rt.Documents.Delete)
	r.GET("/search-documents", optional, middleware.PageVisit(rt.Visits, models.PageDocumentSearch), rt.Documents.Search)
	r.GET("/convert-to-pdf/:file_id", optional, rt.Documents.ConvertToPDF)

	r.POST("/rate-file", middleware.StrictOptionalAuth(rt.Tokens), rt.Sessions.Ensure(),
		middleware.PageVisit(rt.Visits, models.PageRateFile), rt.Workflow.RateFile)
	r.POST("/moderate-document", authorize, staff, rt.Workflow.ModerateDocument)
	r.POST("/report-document", optional, rt.Workflow.ReportDocument)
	r.GET("/reports", authorize, staff, rt.Workflow.ListReports)
	r.POST("/moderate-report", authorize, staff, rt.Workflow.ModerateReport)

	r.GET("/activity-logs", authorize, staff, rt.Activity.ActivityLogs)
	r.GET("/analytics", authorize, staff, rt.Activity.Analytics)

	r.POST("/faq", authorize, staff, rt.FAQ.Create)
	r.POST("/faq_answer", authorize, staff, rt.FAQ.Answer)
	r.GET("/faqs", optional, middleware.PageVisit(rt.Visits, models.PageFAQs), rt.FAQ.List)
}
