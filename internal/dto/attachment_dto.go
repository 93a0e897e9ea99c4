package dto

import (
	"time"

	"github.com/google/uuid"

	"school-portal-api/internal/domain"
)

// AttachmentResponse represents the attachment metadata response
type AttachmentResponse struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"originalName" example:"가정통신문.pdf"`
	Filename     string    `json:"filename" example:"content/notice/539167fb-b599-41ba-9ead-344a6d0b3a2f/2024/03/f47ac10b_1709280000.pdf"`
	Mimetype     string    `json:"mimetype" example:"application/pdf"`
	Size         int64     `json:"size" example:"102400"`
	URL          string    `json:"url"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// UploadResultResponse reports the outcome of one submitted file
type UploadResultResponse struct {
	OriginalName string              `json:"originalName"`
	Success      bool                `json:"success"`
	Attachment   *AttachmentResponse `json:"attachment,omitempty"`
	Error        *UploadError        `json:"error,omitempty"`
}

// UploadError is the error of a rejected file
type UploadError struct {
	Code    string `json:"code" example:"PAYLOAD_TOO_LARGE"`
	Message string `json:"message"`
}

// NewAttachmentResponse converts a domain attachment
func NewAttachmentResponse(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           a.ID,
		OriginalName: a.OriginalName,
		Filename:     a.StoredName,
		Mimetype:     a.MediaType,
		Size:         a.SizeBytes,
		URL:          a.URL,
		UploadedAt:   a.UploadedAt,
	}
}

// NewAttachmentResponses converts attachments, returning an empty (non-nil) slice for none
func NewAttachmentResponses(attachments []*domain.Attachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, NewAttachmentResponse(a))
	}
	return out
}
