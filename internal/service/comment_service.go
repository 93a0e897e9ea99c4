package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-portal-api/internal/auth"
	"school-portal-api/internal/client"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/metrics"
	"school-portal-api/internal/repository"
	"school-portal-api/internal/response"
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	ListFor(ctx context.Context, kind domain.Kind, contentID uuid.UUID) ([]dto.CommentResponse, error)
	Create(ctx context.Context, kind domain.Kind, contentID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, commentID uuid.UUID, credential string) error
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo        repository.CommentRepository
	contentRepo        repository.ContentRepository
	guard              auth.AccessGuard
	notificationClient client.NotificationClient
	metrics            *metrics.Metrics
	logger             *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	contentRepo repository.ContentRepository,
	guard auth.AccessGuard,
	notificationClient client.NotificationClient,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notificationClient == nil {
		notificationClient = client.NewNoOpNotificationClient()
	}
	return &commentServiceImpl{
		commentRepo:        commentRepo,
		contentRepo:        contentRepo,
		guard:              guard,
		notificationClient: notificationClient,
		metrics:            m,
		logger:             logger,
	}
}

// ListFor returns the comments of a record, oldest first
func (s *commentServiceImpl) ListFor(ctx context.Context, kind domain.Kind, contentID uuid.UUID) ([]dto.CommentResponse, error) {
	if _, err := specOrError(kind); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByOwner(ctx, domain.Owner{Kind: kind, ContentID: contentID})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list comments", err.Error())
	}
	return dto.NewCommentResponses(comments), nil
}

// Create adds a public comment to an existing record
func (s *commentServiceImpl) Create(ctx context.Context, kind domain.Kind, contentID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := specOrError(kind); err != nil {
		return nil, err
	}
	if req == nil {
		req = &dto.CreateCommentRequest{}
	}

	author, body, appErr := validateComment(req)
	if appErr != nil {
		return nil, appErr
	}

	exists, err := s.contentRepo.Exists(ctx, kind, contentID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify content", err.Error())
	}
	if !exists {
		return nil, contentNotFound(kind, contentID)
	}

	comment := &domain.Comment{
		ContentKind: kind,
		ContentID:   contentID,
		Author:      author,
		Body:        body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementCommentCreated()
	}

	// 알림 실패는 댓글 생성에 영향을 주지 않음
	event := client.NewCommentAddedEvent(string(kind), contentID, comment.ID, author, body, comment.CreatedAt)
	if err := s.notificationClient.SendNotification(ctx, event); err != nil {
		s.logger.Warn("Failed to send comment notification",
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err))
	}

	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}

// Delete removes a comment; admin only
func (s *commentServiceImpl) Delete(ctx context.Context, commentID uuid.UUID, credential string) error {
	if s.guard == nil || !s.guard.Authorize(ctx, credential) {
		return response.NewUnauthorizedError("Admin credential required")
	}

	deleted, err := s.commentRepo.Delete(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Comment not found", commentID.String())
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
	}
	if !deleted {
		return response.NewNotFoundError("Comment not found", commentID.String())
	}

	s.logger.Info("Comment deleted", zap.String("comment_id", commentID.String()))
	return nil
}
