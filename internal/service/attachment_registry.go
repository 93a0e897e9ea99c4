package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-portal-api/internal/client"
	"school-portal-api/internal/config"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/metrics"
	"school-portal-api/internal/repository"
	"school-portal-api/internal/response"
)

// Upload is one submitted file. Open is called only after the file passed validation.
type Upload struct {
	OriginalName string
	MediaType    string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// UploadResult is the outcome of one file of a batch
type UploadResult struct {
	OriginalName string
	Attachment   *domain.Attachment
	Err          error
}

// Succeeded reports whether the file was registered
func (r UploadResult) Succeeded() bool {
	return r.Err == nil && r.Attachment != nil
}

// AttachmentRegistry owns attachment metadata and the binaries behind it
type AttachmentRegistry interface {
	Register(ctx context.Context, owner domain.Owner, upload Upload) (*domain.Attachment, error)
	RegisterBatch(ctx context.Context, owner domain.Owner, uploads []Upload) []UploadResult
	Get(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RemoveBinaries(ctx context.Context, attachments []*domain.Attachment)
	ListFor(ctx context.Context, owner domain.Owner) ([]*domain.Attachment, error)
	ListForMany(ctx context.Context, kind domain.Kind, contentIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error)
}

type attachmentRegistryImpl struct {
	attachmentRepo repository.AttachmentRepository
	store          client.ObjectStore
	maxFileSize    int64
	maxPerOwner    int
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewAttachmentRegistry creates a new instance of AttachmentRegistry
func NewAttachmentRegistry(
	attachmentRepo repository.AttachmentRepository,
	store client.ObjectStore,
	cfg config.ContentConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) AttachmentRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &attachmentRegistryImpl{
		attachmentRepo: attachmentRepo,
		store:          store,
		maxFileSize:    cfg.MaxFileSizeBytes,
		maxPerOwner:    cfg.MaxAttachments,
		metrics:        m,
		logger:         logger,
	}
}

func (s *attachmentRegistryImpl) record(result string) {
	if s.metrics != nil {
		s.metrics.IncrementUpload(result)
	}
}

// Register validates size, then type, then quota, and stores the binary before its metadata
func (s *attachmentRegistryImpl) Register(ctx context.Context, owner domain.Owner, upload Upload) (*domain.Attachment, error) {
	if upload.Size <= 0 {
		s.record(metrics.UploadFailed)
		return nil, response.NewFieldError("files", fmt.Sprintf("File %q is empty", upload.OriginalName))
	}
	if upload.Size > s.maxFileSize {
		s.record(metrics.UploadPayloadTooLarge)
		return nil, &response.AppError{
			Code:    response.ErrCodePayloadTooLarge,
			Message: fmt.Sprintf("File %q exceeds the %d byte limit", upload.OriginalName, s.maxFileSize),
			Field:   "files",
		}
	}

	mediaType := normalizeMediaType(upload.OriginalName, upload.MediaType)
	if err := validateFileType(upload.OriginalName, mediaType); err != nil {
		s.record(metrics.UploadUnsupportedMediaType)
		return nil, err
	}

	count, err := s.attachmentRepo.CountByOwner(ctx, owner)
	if err != nil {
		s.record(metrics.UploadFailed)
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count attachments", err.Error())
	}
	if count >= int64(s.maxPerOwner) {
		s.record(metrics.UploadQuotaExceeded)
		return nil, s.quotaExceeded()
	}

	key, err := client.GenerateFileKey(owner, upload.OriginalName)
	if err != nil {
		s.record(metrics.UploadFailed)
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to generate file key", err.Error())
	}

	url, err := s.storeBinary(ctx, key, mediaType, upload)
	if err != nil {
		s.record(metrics.UploadFailed)
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to store file", err.Error())
	}

	attachment := &domain.Attachment{
		ContentKind:  owner.Kind,
		ContentID:    owner.ContentID,
		OriginalName: upload.OriginalName,
		StoredName:   key,
		MediaType:    mediaType,
		SizeBytes:    upload.Size,
		URL:          url,
		UploadedAt:   time.Now().UTC(),
	}

	// the binary is orphaned if the request was cancelled while it was written
	if err := ctx.Err(); err != nil {
		s.deleteBinary(ctx, key)
		s.record(metrics.UploadFailed)
		return nil, response.NewAppError(response.ErrCodeInternal, "Upload cancelled", err.Error())
	}

	// the count above is rechecked under the owner's row lock before the row is written
	if err := s.attachmentRepo.CreateWithinQuota(ctx, attachment, s.maxPerOwner); err != nil {
		s.deleteBinary(ctx, key)
		switch {
		case errors.Is(err, repository.ErrAttachmentQuotaExceeded):
			s.record(metrics.UploadQuotaExceeded)
			return nil, s.quotaExceeded()
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.record(metrics.UploadFailed)
			return nil, response.NewAppError(response.ErrCodeNotFound, "Content not found", owner.ContentID.String())
		default:
			s.record(metrics.UploadFailed)
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to save attachment metadata", err.Error())
		}
	}

	s.record(metrics.UploadAccepted)
	s.logger.Info("Attachment registered",
		zap.String("attachment_id", attachment.ID.String()),
		zap.String("content_kind", string(owner.Kind)),
		zap.String("content_id", owner.ContentID.String()),
		zap.String("file_key", key),
		zap.Int64("size", upload.Size))

	return attachment, nil
}

func (s *attachmentRegistryImpl) quotaExceeded() *response.AppError {
	return &response.AppError{
		Code:    response.ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("A record can hold at most %d attachments", s.maxPerOwner),
		Field:   "files",
	}
}

func (s *attachmentRegistryImpl) storeBinary(ctx context.Context, key, mediaType string, upload Upload) (string, error) {
	if upload.Open == nil {
		return "", errors.New("upload has no content")
	}
	rc, err := upload.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer rc.Close()

	return s.store.UploadFile(ctx, key, rc, mediaType)
}

// deleteBinary removes a stored object; it survives a cancelled request context
func (s *attachmentRegistryImpl) deleteBinary(ctx context.Context, key string) {
	if err := s.store.DeleteFile(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("Failed to delete stored file",
			zap.String("file_key", key),
			zap.Error(err))
	}
}

// RegisterBatch registers each file independently, in order
func (s *attachmentRegistryImpl) RegisterBatch(ctx context.Context, owner domain.Owner, uploads []Upload) []UploadResult {
	results := make([]UploadResult, 0, len(uploads))
	for _, upload := range uploads {
		attachment, err := s.Register(ctx, owner, upload)
		if err != nil {
			s.logger.Warn("Attachment rejected",
				zap.String("content_id", owner.ContentID.String()),
				zap.String("file_name", upload.OriginalName),
				zap.Error(err))
		}
		results = append(results, UploadResult{
			OriginalName: upload.OriginalName,
			Attachment:   attachment,
			Err:          err,
		})
	}
	return results
}

// Get returns gorm.ErrRecordNotFound when the attachment does not exist
func (s *attachmentRegistryImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	return s.attachmentRepo.FindByID(ctx, id)
}

// Remove deletes the metadata and then the binary. Removing an absent attachment succeeds.
func (s *attachmentRegistryImpl) Remove(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find attachment", err.Error())
	}

	if _, err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete attachment", err.Error())
	}

	s.deleteBinary(ctx, attachment.StoredName)
	return nil
}

// RemoveBinaries deletes stored objects best effort; failures are logged
func (s *attachmentRegistryImpl) RemoveBinaries(ctx context.Context, attachments []*domain.Attachment) {
	for _, attachment := range attachments {
		s.deleteBinary(ctx, attachment.StoredName)
	}
}

// ListFor returns the owner's attachments in insertion order
func (s *attachmentRegistryImpl) ListFor(ctx context.Context, owner domain.Owner) ([]*domain.Attachment, error) {
	attachments, err := s.attachmentRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list attachments", err.Error())
	}
	return attachments, nil
}

// ListForMany groups attachments of several records of one kind
func (s *attachmentRegistryImpl) ListForMany(ctx context.Context, kind domain.Kind, contentIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error) {
	if len(contentIDs) == 0 {
		return map[uuid.UUID][]*domain.Attachment{}, nil
	}
	grouped, err := s.attachmentRepo.FindByOwners(ctx, kind, contentIDs)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list attachments", err.Error())
	}
	return grouped, nil
}
