package dto

import (
	"time"

	"github.com/google/uuid"

	"school-portal-api/internal/domain"
)

// ContentDraftRequest is the body of a create request (JSON or multipart form fields)
// @Description Title, body and category are required except roadmap category, which defaults to 로드맵.
// @Description imageUrl applies to gallery items; type applies to roadmaps (middle_school | high_school).
type ContentDraftRequest struct {
	Title    string `json:"title" form:"title" example:"2024학년도 입학 설명회 안내"`
	Body     string `json:"body" form:"body" example:"<p>Check this: https://youtu.be/aBcDeFgHiJk</p>"`
	Category string `json:"category" form:"category" example:"입학"`
	ImageURL string `json:"imageUrl,omitempty" form:"imageUrl" example:"https://cdn.example.com/cover.png"`
	Type     string `json:"type,omitempty" form:"type" example:"high_school"`
}

// ContentPatchRequest is the body of an update request. Omitted fields are left unchanged.
type ContentPatchRequest struct {
	Title    *string `json:"title,omitempty" form:"title"`
	Body     *string `json:"body,omitempty" form:"body"`
	Category *string `json:"category,omitempty" form:"category"`
	ImageURL *string `json:"imageUrl,omitempty" form:"imageUrl"`
}

// ListContentQuery holds list query parameters
type ListContentQuery struct {
	Category string `form:"category" example:"전체"`
	Search   string `form:"search" example:"설명회"`
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"pageSize" example:"10"`
}

// ContentResponse is a content record with its attachments
// @Description excerpt is present for notices and admission posts, imageUrl for gallery items, type for roadmaps
type ContentResponse struct {
	ID          uuid.UUID            `json:"id" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Title       string               `json:"title"`
	Body        string               `json:"body"`
	Category    string               `json:"category"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	ViewCount   int64                `json:"viewCount"`
	Attachments []AttachmentResponse `json:"attachments"`
	Excerpt     *string              `json:"excerpt,omitempty"`
	ImageURL    *string              `json:"imageUrl,omitempty"`
	Type        *string              `json:"type,omitempty"`
}

// ContentListResponse is one page of a list query
type ContentListResponse struct {
	Items    []ContentResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// ContentMutationResponse is returned by create and update; uploads reports each submitted file
type ContentMutationResponse struct {
	ContentResponse
	Uploads []UploadResultResponse `json:"uploads"`
}

// AnyUploadFailed reports whether at least one submitted file was rejected
func (r *ContentMutationResponse) AnyUploadFailed() bool {
	for _, u := range r.Uploads {
		if !u.Success {
			return true
		}
	}
	return false
}

// NewContentResponse converts a domain record, exposing only the fields its kind defines
func NewContentResponse(c *domain.Content) ContentResponse {
	resp := ContentResponse{
		ID:          c.ID,
		Title:       c.Title,
		Body:        c.Body,
		Category:    c.Category,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		ViewCount:   c.ViewCount,
		Attachments: NewAttachmentResponses(c.Attachments),
	}

	spec, _ := domain.SpecFor(c.Kind)
	if spec.HasExcerpt {
		excerpt := c.Excerpt
		resp.Excerpt = &excerpt
	}
	if spec.HasImage {
		imageURL := c.ImageURL
		resp.ImageURL = &imageURL
	}
	if spec.KeyedByType && c.RoadmapType != nil {
		t := string(*c.RoadmapType)
		resp.Type = &t
	}
	return resp
}

// NewContentResponses converts a slice of records
func NewContentResponses(contents []*domain.Content) []ContentResponse {
	items := make([]ContentResponse, 0, len(contents))
	for _, c := range contents {
		items = append(items, NewContentResponse(c))
	}
	return items
}
