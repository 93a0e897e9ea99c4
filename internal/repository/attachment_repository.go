package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"school-portal-api/internal/domain"
)

// ErrAttachmentQuotaExceeded is returned by CreateWithinQuota when the owner already holds the limit
var ErrAttachmentQuotaExceeded = errors.New("attachment quota exceeded")

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	FindByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Attachment, error)
	FindByOwners(ctx context.Context, kind domain.Kind, contentIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error)
	CountByOwner(ctx context.Context, owner domain.Owner) (int64, error)
	CreateWithinQuota(ctx context.Context, attachment *domain.Attachment, limit int) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindOrphans(ctx context.Context, limit int) ([]*domain.Attachment, error)
	DeleteBatch(ctx context.Context, attachmentIDs []uuid.UUID) error
}

// attachmentRepositoryImpl is the GORM implementation of AttachmentRepository
type attachmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new instance of AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

// Create creates a new attachment
func (r *attachmentRepositoryImpl) Create(ctx context.Context, attachment *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// FindByID finds an attachment by its ID
func (r *attachmentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// FindByOwner returns the owner's attachments in insertion order
func (r *attachmentRepositoryImpl) FindByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Attachment, error) {
	attachments := make([]*domain.Attachment, 0)
	if err := r.db.WithContext(ctx).
		Where("content_kind = ? AND content_id = ?", owner.Kind, owner.ContentID).
		Order("position ASC, uploaded_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindByOwners loads the attachments of several records of one kind, grouped by record
func (r *attachmentRepositoryImpl) FindByOwners(ctx context.Context, kind domain.Kind, contentIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error) {
	grouped := make(map[uuid.UUID][]*domain.Attachment, len(contentIDs))
	if len(contentIDs) == 0 {
		return grouped, nil
	}

	var attachments []*domain.Attachment
	if err := r.db.WithContext(ctx).
		Where("content_kind = ? AND content_id IN ?", kind, contentIDs).
		Order("position ASC, uploaded_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}

	for _, a := range attachments {
		grouped[a.ContentID] = append(grouped[a.ContentID], a)
	}
	return grouped, nil
}

// CountByOwner counts the owner's attachments
func (r *attachmentRepositoryImpl) CountByOwner(ctx context.Context, owner domain.Owner) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Attachment{}).
		Where("content_kind = ? AND content_id = ?", owner.Kind, owner.ContentID).
		Count(&count).Error
	return count, err
}

// CreateWithinQuota inserts the attachment while holding a lock on the owning content row,
// so concurrent uploads to one record are counted one at a time. The attachment's position
// is set to the count at insert time. It returns gorm.ErrRecordNotFound when the owner is gone.
func (r *attachmentRepositoryImpl) CreateWithinQuota(ctx context.Context, attachment *domain.Attachment, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner domain.Content
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND kind = ?", attachment.ContentID, attachment.ContentKind).
			First(&owner).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&domain.Attachment{}).
			Where("content_kind = ? AND content_id = ?", attachment.ContentKind, attachment.ContentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return ErrAttachmentQuotaExceeded
		}

		attachment.Position = int(count)
		return tx.Create(attachment).Error
	})
}

// Delete removes an attachment row and reports whether it existed
func (r *attachmentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Attachment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindOrphans returns attachments whose owning record no longer exists
func (r *attachmentRepositoryImpl) FindOrphans(ctx context.Context, limit int) ([]*domain.Attachment, error) {
	var attachments []*domain.Attachment
	q := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM contents c WHERE c.id = attachments.content_id AND c.kind = attachments.content_kind)").
		Order("uploaded_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// DeleteBatch deletes multiple attachments by their IDs
func (r *attachmentRepositoryImpl) DeleteBatch(ctx context.Context, attachmentIDs []uuid.UUID) error {
	if len(attachmentIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Where("id IN ?", attachmentIDs).
		Delete(&domain.Attachment{}).Error
}
