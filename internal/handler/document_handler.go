package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/middleware"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/service"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/response"
)

// multipart framing and metadata fields on top of the file itself
const formOverhead = 1 << 20

type uploader interface {
	Upload(ctx context.Context, caller *service.Caller, in service.UploadInput) (*models.Document, error)
}

type documentService interface {
	List(ctx context.Context, caller *service.Caller) ([]models.Document, error)
	Search(ctx context.Context, caller *service.Caller, q dto.SearchDocumentsQuery) ([]models.Document, error)
	Get(ctx context.Context, caller *service.Caller, id int64) (*models.Document, error)
	Update(ctx context.Context, caller *service.Caller, id int64, req dto.UpdateDocumentRequest) (*models.Document, error)
	Delete(ctx context.Context, caller *service.Caller, id int64) (*models.Document, error)
}

type pdfConversion interface {
	Convert(ctx context.Context, caller *service.Caller, id int64) (*models.Document, error)
}

// DocumentHandler serves document intake, listing and conversion.
type DocumentHandler struct {
	uploads     uploader
	documents   documentService
	conversions pdfConversion
	maxBytes    int64
}

// NewDocumentHandler constructs the handler. maxBytes bounds the uploaded file.
func NewDocumentHandler(uploads uploader, documents documentService, conversions pdfConversion, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{uploads: uploads, documents: documents, conversions: conversions, maxBytes: maxBytes}
}

// List godoc
// @Summary List documents
// @Description Anonymous callers and non-privileged roles only see approved documents
// @Tags Documents
// @Produce json
// @Success 200 {array} models.Document
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, docs)
}

// Upload godoc
// @Summary Upload document
// @Description Validates, watermarks and stores a document, then records its metadata
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security JWTToken
// @Param file formData file true "Document"
// @Param file_name formData string false "Display name"
// @Param subject formData int false "Subject id"
// @Param grade formData int false "Grade id"
// @Param keywords formData string false "Comma separated keywords"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} response.Message
// @Failure 403 {object} response.Message
// @Failure 429 {object} response.Message
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+formOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.ErrFileTooLarge)
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No file selected!"))
		return
	}

	subject, err := optionalID(c.PostForm("subject"))
	if err != nil {
		response.Error(c, err)
		return
	}
	grade, err := optionalID(c.PostForm("grade"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "No file selected!"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error reading file"))
		return
	}

	doc, err := h.uploads.Upload(c.Request.Context(), middleware.Caller(c), service.UploadInput{
		Filename:     header.Filename,
		DeclaredMIME: header.Header.Get("Content-Type"),
		Data:         data,
		Meta: dto.UploadDocumentRequest{
			FileName: c.PostForm("file_name"),
			Subject:  subject,
			Grade:    grade,
			Keywords: c.PostForm("keywords"),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.DocumentResponse{
		Msg:  "File uploaded, document created, and keywords linked successfully",
		File: doc,
	})
}

// Search godoc
// @Summary Search documents
// @Tags Documents
// @Produce json
// @Param file_name query string false "Name substring"
// @Param subject query string false "Subject id or name"
// @Param grade query string false "Grade id or name"
// @Param rating query number false "Minimum rating"
// @Param uploaded_by query int false "Uploader id"
// @Param status query string false "pending, approved or rejected"
// @Param keywords query string false "Comma separated keywords"
// @Success 200 {array} models.Document
// @Failure 400 {object} response.Message
// @Router /search-documents [get]
func (h *DocumentHandler) Search(c *gin.Context) {
	var q dto.SearchDocumentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid search parameters"))
		return
	}
	docs, err := h.documents.Search(c.Request.Context(), middleware.Caller(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, docs)
}

// Get godoc
// @Summary Get document
// @Description Returns one document with its keywords. Unapproved documents are only visible to moderators and admins
// @Tags Documents
// @Produce json
// @Param id path int true "Document id"
// @Success 200 {object} models.Document
// @Failure 404 {object} response.Message
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid document id")
	if !ok {
		return
	}
	doc, err := h.documents.Get(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, doc)
}

// Update godoc
// @Summary Update document metadata
// @Tags Documents
// @Accept json
// @Produce json
// @Security JWTToken
// @Param id path int true "Document id"
// @Param payload body dto.UpdateDocumentRequest true "Fields to change"
// @Success 200 {object} models.Document
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /documents/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid document id")
	if !ok {
		return
	}
	var req dto.UpdateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.documents.Update(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, doc)
}

// Delete godoc
// @Summary Delete document
// @Tags Documents
// @Produce json
// @Security JWTToken
// @Param id path int true "Document id"
// @Success 200 {object} dto.DocumentResponse
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid document id")
	if !ok {
		return
	}
	doc, err := h.documents.Delete(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DocumentResponse{Msg: "Document deleted successfully", File: doc})
}

// ConvertToPDF godoc
// @Summary Convert document to PDF
// @Tags Documents
// @Produce json
// @Param file_id path int true "Document id"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /convert-to-pdf/{file_id} [get]
func (h *DocumentHandler) ConvertToPDF(c *gin.Context) {
	id, ok := pathID(c, "file_id", "Invalid file id")
	if !ok {
		return
	}
	doc, err := h.conversions.Convert(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ConvertResponse{Msg: "File converted and saved successfully", PDFURL: doc.StoragePath})
}
