package job

import (
	"context"

	"go.uber.org/zap"

	"school-portal-api/internal/cache"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/repository"
	"school-portal-api/internal/transform"
)

const defaultBackfillBatchSize = 100

// GalleryBackfillJob fills the image URL of gallery items created without one
// from the first image in their body. Items whose body has no image stay empty.
type GalleryBackfillJob struct {
	contentRepo repository.ContentRepository
	listCache   cache.ListCache
	batchSize   int
	logger      *zap.Logger
}

// NewGalleryBackfillJob creates the job. listCache may be nil.
func NewGalleryBackfillJob(contentRepo repository.ContentRepository, listCache cache.ListCache, logger *zap.Logger) *GalleryBackfillJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryBackfillJob{
		contentRepo: contentRepo,
		listCache:   listCache,
		batchSize:   defaultBackfillBatchSize,
		logger:      logger,
	}
}

// Name identifies the job in logs
func (j *GalleryBackfillJob) Name() string {
	return "gallery_image_backfill"
}

// RunOnce walks every gallery item without an image in pages of batchSize and
// returns the number of items updated. A second run over the same data updates nothing.
func (j *GalleryBackfillJob) RunOnce(ctx context.Context) (int, error) {
	var (
		after   *repository.ContentCursor
		scanned int
		updated int
	)
	for {
		items, err := j.contentRepo.FindGalleryWithoutImage(ctx, after, j.batchSize)
		if err != nil {
			j.logger.Error("Failed to find gallery items without image", zap.Error(err))
			if updated > 0 && j.listCache != nil {
				j.listCache.Invalidate(ctx, string(domain.KindGallery))
			}
			return updated, err
		}
		scanned += len(items)

		for _, item := range items {
			if j.backfill(ctx, item) {
				updated++
			}
		}

		if j.batchSize <= 0 || len(items) < j.batchSize {
			break
		}
		after = repository.CursorOf(items[len(items)-1])
	}

	if updated > 0 && j.listCache != nil {
		j.listCache.Invalidate(ctx, string(domain.KindGallery))
	}

	j.logger.Info("Gallery backfill completed",
		zap.Int("scanned", scanned),
		zap.Int("updated", updated),
	)
	return updated, nil
}

func (j *GalleryBackfillJob) backfill(ctx context.Context, item *domain.Content) bool {
	imageURL, ok := transform.ExtractFirstImageURL(item.Body)
	if !ok {
		return false
	}

	changed, err := j.contentRepo.BackfillImageURL(ctx, item.ID, imageURL)
	if err != nil {
		j.logger.Warn("Failed to backfill gallery image",
			zap.String("content_id", item.ID.String()),
			zap.Error(err),
		)
		return false
	}
	return changed
}
