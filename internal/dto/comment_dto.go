package dto

import (
	"time"

	"github.com/google/uuid"

	"school-portal-api/internal/domain"
)

// CreateCommentRequest represents the request to create a new comment
// @Description author and content must be non-empty after trimming
type CreateCommentRequest struct {
	Author  string `json:"author" example:"학부모"`
	Content string `json:"content" example:"좋은 정보 감사합니다."`
}

// CommentResponse represents the comment response
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type" example:"notice"`
	PostID    uuid.UUID `json:"postId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCommentResponse converts a domain comment
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Type:      string(c.ContentKind),
		PostID:    c.ContentID,
		Author:    c.Author,
		Content:   c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// NewCommentResponses converts a slice of comments
func NewCommentResponses(comments []*domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentResponse(c))
	}
	return out
}
