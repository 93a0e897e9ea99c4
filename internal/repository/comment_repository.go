package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-portal-api/internal/domain"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create creates a new comment
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByID finds a comment by its ID
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByOwner returns the record's comments, oldest first
func (r *commentRepositoryImpl) FindByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Comment, error) {
	comments := make([]*domain.Comment, 0)
	if err := r.db.WithContext(ctx).
		Where("content_kind = ? AND content_id = ?", owner.Kind, owner.ContentID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment and reports whether it existed
func (r *commentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
