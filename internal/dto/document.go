package dto

// UploadDocumentRequest is the multipart metadata submitted alongside the file.
type UploadDocumentRequest struct {
	FileName string `form:"file_name" validate:"omitempty,max=255"`
	Subject  *int64 `form:"subject" validate:"omitempty,gt=0"`
	Grade    *int64 `form:"grade" validate:"omitempty,gt=0"`
	Keywords string `form:"keywords" validate:"max=1000"`
}

// UpdateDocumentRequest edits document metadata; omitted fields keep their value.
type UpdateDocumentRequest struct {
	FileName *string `json:"file_name" validate:"omitempty,min=1,max=255"`
	Subject  *int64  `json:"subject" validate:"omitempty,gt=0"`
	Grade    *int64  `json:"grade" validate:"omitempty,gt=0"`
}

// SearchDocumentsQuery binds the search query string.
type SearchDocumentsQuery struct {
	FileName   string   `form:"file_name"`
	Subject    string   `form:"subject"`
	Grade      string   `form:"grade"`
	Rating     *float64 `form:"rating" validate:"omitempty,gte=0,lte=5"`
	UploadedBy *int64   `form:"uploaded_by" validate:"omitempty,gt=0"`
	Status     string   `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	Keywords   string   `form:"keywords"`
}

// DocumentResponse wraps an upload result.
type DocumentResponse struct {
	Msg  string      `json:"msg"`
	File interface{} `json:"file"`
}

// ConvertResponse reports the new location of a converted document.
type ConvertResponse struct {
	Msg    string `json:"msg"`
	PDFURL string `json:"pdfUrl"`
}
