package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/middleware"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/service"
	"github.com/noah-isme/share2teach-api/pkg/response"
)

type faqService interface {
	Create(ctx context.Context, caller *service.Caller, req dto.CreateFAQRequest) (*models.FAQ, error)
	Answer(ctx context.Context, caller *service.Caller, req dto.AnswerFAQRequest) (*models.FAQ, error)
	List(ctx context.Context) ([]models.FAQ, error)
}

// FAQHandler serves the question and answer board.
type FAQHandler struct {
	service faqService
}

// NewFAQHandler constructs the handler.
func NewFAQHandler(svc faqService) *FAQHandler {
	return &FAQHandler{service: svc}
}

// Create godoc
// @Summary Ask a question
// @Tags FAQ
// @Accept json
// @Produce json
// @Security JWTToken
// @Param payload body dto.CreateFAQRequest true "Question"
// @Success 201 {object} map[string]interface{}
// @Router /faq [post]
func (h *FAQHandler) Create(c *gin.Context) {
	var req dto.CreateFAQRequest
	if !bindJSON(c, &req) {
		return
	}
	faq, err := h.service.Create(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"msg": "FAQ created successfully", "faq": faq})
}

// Answer godoc
// @Summary Answer a question
// @Tags FAQ
// @Accept json
// @Produce json
// @Security JWTToken
// @Param payload body dto.AnswerFAQRequest true "Answer"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /faq_answer [post]
func (h *FAQHandler) Answer(c *gin.Context) {
	var req dto.AnswerFAQRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.service.Answer(c.Request.Context(), middleware.Caller(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Msg(c, http.StatusOK, "Answer added successfully")
}

// List godoc
// @Summary List questions
// @Tags FAQ
// @Produce json
// @Success 200 {array} models.FAQ
// @Router /faqs [get]
func (h *FAQHandler) List(c *gin.Context) {
	faqs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, faqs)
}
