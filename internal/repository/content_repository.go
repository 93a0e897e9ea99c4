package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-portal-api/internal/domain"
)

// ContentFilter narrows a list query. Empty fields don't filter.
type ContentFilter struct {
	Category string
	// TitleContains is matched case-insensitively as a literal substring
	TitleContains string
	Offset        int
	Limit         int
}

// ContentCursor marks the last row of a page ordered by (created_at, id)
type ContentCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CursorOf returns the cursor positioned at c
func CursorOf(c *domain.Content) *ContentCursor {
	return &ContentCursor{CreatedAt: c.CreatedAt, ID: c.ID}
}

// ContentRepository stores records of every kind in one table
type ContentRepository interface {
	Create(ctx context.Context, content *domain.Content) error
	FindByID(ctx context.Context, kind domain.Kind, id uuid.UUID) (*domain.Content, error)
	FindRoadmapByType(ctx context.Context, roadmapType domain.RoadmapType) (*domain.Content, error)
	List(ctx context.Context, kind domain.Kind, filter ContentFilter) ([]*domain.Content, int64, error)
	Exists(ctx context.Context, kind domain.Kind, id uuid.UUID) (bool, error)
	UpdateFields(ctx context.Context, content *domain.Content) error
	IncrementViewCount(ctx context.Context, kind domain.Kind, id uuid.UUID) (bool, error)
	FindGalleryWithoutImage(ctx context.Context, after *ContentCursor, limit int) ([]*domain.Content, error)
	BackfillImageURL(ctx context.Context, id uuid.UUID, imageURL string) (bool, error)
	DeleteCascade(ctx context.Context, kind domain.Kind, id uuid.UUID) ([]*domain.Attachment, error)
}

type contentRepositoryImpl struct {
	db *gorm.DB
}

// NewContentRepository creates a new instance of ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepositoryImpl{db: db}
}

// Create inserts a record; id and timestamps are assigned here
func (r *contentRepositoryImpl) Create(ctx context.Context, content *domain.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

// FindByID returns gorm.ErrRecordNotFound when the id is absent or belongs to another kind
func (r *contentRepositoryImpl) FindByID(ctx context.Context, kind domain.Kind, id uuid.UUID) (*domain.Content, error) {
	var content domain.Content
	if err := r.db.WithContext(ctx).
		Where("id = ? AND kind = ?", id, kind).
		First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// FindRoadmapByType returns the single roadmap of the given type
func (r *contentRepositoryImpl) FindRoadmapByType(ctx context.Context, roadmapType domain.RoadmapType) (*domain.Content, error) {
	var content domain.Content
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND roadmap_type = ?", domain.KindRoadmap, roadmapType).
		First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// List returns one page, newest first, and the total number of matching records
func (r *contentRepositoryImpl) List(ctx context.Context, kind domain.Kind, filter ContentFilter) ([]*domain.Content, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Content{}).Where("kind = ?", kind)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.TitleContains != "" {
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(filter.TitleContains))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	contents := make([]*domain.Content, 0)
	if err := query.
		Order("created_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&contents).Error; err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Exists reports whether a record of kind with id exists
func (r *contentRepositoryImpl) Exists(ctx context.Context, kind domain.Kind, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Content{}).
		Where("id = ? AND kind = ?", id, kind).
		Count(&count).Error
	return count > 0, err
}

// UpdateFields writes the editable columns. view_count is never written here.
func (r *contentRepositoryImpl) UpdateFields(ctx context.Context, content *domain.Content) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Content{}).
		Where("id = ? AND kind = ?", content.ID, content.Kind).
		Updates(map[string]interface{}{
			"title":        content.Title,
			"body":         content.Body,
			"category":     content.Category,
			"excerpt":      content.Excerpt,
			"image_url":    content.ImageURL,
			"roadmap_type": content.RoadmapType,
			"updated_at":   r.db.NowFunc(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViewCount adds one view in a single statement and reports whether the record exists
func (r *contentRepositoryImpl) IncrementViewCount(ctx context.Context, kind domain.Kind, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Content{}).
		Where("id = ? AND kind = ?", id, kind).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindGalleryWithoutImage returns gallery items whose image_url is empty, oldest first,
// starting after the given cursor (nil starts from the beginning)
func (r *contentRepositoryImpl) FindGalleryWithoutImage(ctx context.Context, after *ContentCursor, limit int) ([]*domain.Content, error) {
	var contents []*domain.Content
	q := r.db.WithContext(ctx).
		Where("kind = ? AND (image_url = '' OR image_url IS NULL)", domain.KindGallery)
	if after != nil {
		q = q.Where("(created_at > ? OR (created_at = ? AND id > ?))", after.CreatedAt, after.CreatedAt, after.ID)
	}
	q = q.Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

// BackfillImageURL sets image_url only if it is still empty, so concurrent runs write at most once
func (r *contentRepositoryImpl) BackfillImageURL(ctx context.Context, id uuid.UUID, imageURL string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Content{}).
		Where("id = ? AND kind = ? AND (image_url = '' OR image_url IS NULL)", id, domain.KindGallery).
		UpdateColumn("image_url", imageURL)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteCascade removes the record's comments, attachment rows and the record itself in one transaction.
// It returns the removed attachment rows so their binaries can be deleted afterwards.
func (r *contentRepositoryImpl) DeleteCascade(ctx context.Context, kind domain.Kind, id uuid.UUID) ([]*domain.Attachment, error) {
	var removed []*domain.Attachment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var content domain.Content
		if err := tx.Where("id = ? AND kind = ?", id, kind).First(&content).Error; err != nil {
			return err
		}

		if err := tx.Where("content_kind = ? AND content_id = ?", kind, id).
			Delete(&domain.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("content_kind = ? AND content_id = ?", kind, id).
			Find(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("content_kind = ? AND content_id = ?", kind, id).
			Delete(&domain.Attachment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&content).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
