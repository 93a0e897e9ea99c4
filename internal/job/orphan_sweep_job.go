package job

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"school-portal-api/internal/client"
	"school-portal-api/internal/repository"
)

const defaultSweepBatchSize = 200

// OrphanSweepJob removes attachments whose owning record no longer exists
type OrphanSweepJob struct {
	attachmentRepo repository.AttachmentRepository
	store          client.ObjectStore
	batchSize      int
	logger         *zap.Logger
}

// NewOrphanSweepJob creates a new OrphanSweepJob instance
func NewOrphanSweepJob(
	attachmentRepo repository.AttachmentRepository,
	store client.ObjectStore,
	logger *zap.Logger,
) *OrphanSweepJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrphanSweepJob{
		attachmentRepo: attachmentRepo,
		store:          store,
		batchSize:      defaultSweepBatchSize,
		logger:         logger,
	}
}

// Name identifies the job in logs
func (j *OrphanSweepJob) Name() string {
	return "orphan_attachment_sweep"
}

// RunOnce deletes one batch of orphaned attachments and returns how many rows were removed.
// Metadata is removed only for attachments whose binary was deleted.
func (j *OrphanSweepJob) RunOnce(ctx context.Context) (int, error) {
	orphans, err := j.attachmentRepo.FindOrphans(ctx, j.batchSize)
	if err != nil {
		j.logger.Error("Failed to find orphaned attachments", zap.Error(err))
		return 0, err
	}

	if len(orphans) == 0 {
		j.logger.Debug("No orphaned attachments found")
		return 0, nil
	}

	j.logger.Info("Found orphaned attachments", zap.Int("count", len(orphans)))

	var deletedIDs []uuid.UUID
	failCount := 0

	for _, attachment := range orphans {
		if err := j.store.DeleteFile(ctx, attachment.StoredName); err != nil {
			j.logger.Error("Failed to delete orphaned binary",
				zap.String("attachment_id", attachment.ID.String()),
				zap.String("file_key", attachment.StoredName),
				zap.Error(err),
			)
			failCount++
			continue
		}
		deletedIDs = append(deletedIDs, attachment.ID)
	}

	if len(deletedIDs) > 0 {
		if err := j.attachmentRepo.DeleteBatch(ctx, deletedIDs); err != nil {
			j.logger.Error("Failed to delete orphaned attachment rows",
				zap.Int("count", len(deletedIDs)),
				zap.Error(err),
			)
			return 0, err
		}
	}

	j.logger.Info("Orphan sweep completed",
		zap.Int("total_orphans", len(orphans)),
		zap.Int("success", len(deletedIDs)),
		zap.Int("failed", failCount),
	)
	return len(deletedIDs), nil
}
