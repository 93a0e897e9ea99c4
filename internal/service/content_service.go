package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-portal-api/internal/auth"
	"school-portal-api/internal/cache"
	"school-portal-api/internal/config"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/metrics"
	"school-portal-api/internal/repository"
	"school-portal-api/internal/response"
	"school-portal-api/internal/transform"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// ContentService defines the interface for content business logic.
// Every mutating call takes the caller's credential and checks it before anything else.
type ContentService interface {
	List(ctx context.Context, kind domain.Kind, query *dto.ListContentQuery) (*dto.ContentListResponse, error)
	Get(ctx context.Context, kind domain.Kind, id uuid.UUID, detailView bool) (*dto.ContentResponse, error)
	GetRoadmap(ctx context.Context, roadmapType domain.RoadmapType) (*dto.ContentResponse, error)
	ListAttachments(ctx context.Context, kind domain.Kind, id uuid.UUID) ([]dto.AttachmentResponse, error)
	Create(ctx context.Context, kind domain.Kind, req *dto.ContentDraftRequest, files []Upload, credential string) (*dto.ContentMutationResponse, error)
	Update(ctx context.Context, kind domain.Kind, id uuid.UUID, req *dto.ContentPatchRequest, files []Upload, credential string) (*dto.ContentMutationResponse, error)
	UpsertRoadmap(ctx context.Context, roadmapType domain.RoadmapType, req *dto.ContentDraftRequest, files []Upload, credential string) (*dto.ContentMutationResponse, error)
	Delete(ctx context.Context, kind domain.Kind, id uuid.UUID, credential string) error
	RemoveAttachment(ctx context.Context, attachmentID uuid.UUID, credential string) error
}

type contentServiceImpl struct {
	contentRepo repository.ContentRepository
	attachments AttachmentRegistry
	guard       auth.AccessGuard
	listCache   cache.ListCache
	cfg         config.ContentConfig
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewContentService creates a new instance of ContentService. listCache may be nil.
func NewContentService(
	contentRepo repository.ContentRepository,
	attachments AttachmentRegistry,
	guard auth.AccessGuard,
	listCache cache.ListCache,
	cfg config.ContentConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &contentServiceImpl{
		contentRepo: contentRepo,
		attachments: attachments,
		guard:       guard,
		listCache:   listCache,
		cfg:         cfg,
		metrics:     m,
		logger:      logger,
	}
}

func specOrError(kind domain.Kind) (domain.KindSpec, error) {
	spec, ok := domain.SpecFor(kind)
	if !ok {
		return domain.KindSpec{}, response.NewValidationError("Unknown content kind", string(kind))
	}
	return spec, nil
}

func (s *contentServiceImpl) authorize(ctx context.Context, credential string) error {
	if s.guard == nil || !s.guard.Authorize(ctx, credential) {
		return response.NewUnauthorizedError("Admin credential required")
	}
	return nil
}

func contentNotFound(kind domain.Kind, id uuid.UUID) error {
	return response.NewNotFoundError(fmt.Sprintf("%s not found", kind), id.String())
}

// List returns one page of a kind, newest first
func (s *contentServiceImpl) List(ctx context.Context, kind domain.Kind, query *dto.ListContentQuery) (*dto.ContentListResponse, error) {
	spec, err := specOrError(kind)
	if err != nil {
		return nil, err
	}
	if query == nil {
		query = &dto.ListContentQuery{}
	}

	page := query.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := repository.ContentFilter{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if category := strings.TrimSpace(query.Category); !domain.IsCategoryWildcard(category) {
		filter.Category = category
	}
	if spec.Searchable {
		filter.TitleContains = strings.TrimSpace(query.Search)
	}

	cacheKey := fmt.Sprintf("c=%s|s=%s|p=%d|n=%d", filter.Category, strings.ToLower(filter.TitleContains), page, pageSize)
	cacheVersion := cache.NoVersion
	if s.listCache != nil {
		var cached dto.ContentListResponse
		version, hit := s.listCache.Get(ctx, string(kind), cacheKey, &cached)
		if hit {
			return &cached, nil
		}
		cacheVersion = version
	}

	contents, total, err := s.contentRepo.List(ctx, kind, filter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list content", err.Error())
	}

	if err := s.attachAll(ctx, kind, contents); err != nil {
		return nil, err
	}

	result := &dto.ContentListResponse{
		Items:    dto.NewContentResponses(contents),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	if s.listCache != nil {
		s.listCache.Set(ctx, string(kind), cacheVersion, cacheKey, result)
	}
	return result, nil
}

func (s *contentServiceImpl) attachAll(ctx context.Context, kind domain.Kind, contents []*domain.Content) error {
	ids := make([]uuid.UUID, 0, len(contents))
	for _, c := range contents {
		ids = append(ids, c.ID)
	}
	grouped, err := s.attachments.ListForMany(ctx, kind, ids)
	if err != nil {
		return err
	}
	for _, c := range contents {
		c.Attachments = grouped[c.ID]
	}
	return nil
}

func (s *contentServiceImpl) loadAttachments(ctx context.Context, content *domain.Content) error {
	attachments, err := s.attachments.ListFor(ctx, content.Owner())
	if err != nil {
		return err
	}
	content.Attachments = attachments
	return nil
}

// Get reads one record. A detail view adds one view in SQL before the read.
func (s *contentServiceImpl) Get(ctx context.Context, kind domain.Kind, id uuid.UUID, detailView bool) (*dto.ContentResponse, error) {
	if _, err := specOrError(kind); err != nil {
		return nil, err
	}

	if detailView {
		found, err := s.contentRepo.IncrementViewCount(ctx, kind, id)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to record view", err.Error())
		}
		if !found {
			return nil, contentNotFound(kind, id)
		}
		if s.metrics != nil {
			s.metrics.IncrementContentViewed(string(kind))
		}
	}

	content, err := s.contentRepo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contentNotFound(kind, id)
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get content", err.Error())
	}

	if err := s.loadAttachments(ctx, content); err != nil {
		return nil, err
	}

	resp := dto.NewContentResponse(content)
	return &resp, nil
}

// GetRoadmap reads the single record of a roadmap type
func (s *contentServiceImpl) GetRoadmap(ctx context.Context, roadmapType domain.RoadmapType) (*dto.ContentResponse, error) {
	if !roadmapType.IsValid() {
		return nil, response.NewFieldError("type", fmt.Sprintf("Unknown roadmap type %q", roadmapType))
	}

	content, err := s.contentRepo.FindRoadmapByType(ctx, roadmapType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("roadmap not found", string(roadmapType))
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get roadmap", err.Error())
	}

	if err := s.loadAttachments(ctx, content); err != nil {
		return nil, err
	}

	resp := dto.NewContentResponse(content)
	return &resp, nil
}

// ListAttachments returns a record's attachments in insertion order
func (s *contentServiceImpl) ListAttachments(ctx context.Context, kind domain.Kind, id uuid.UUID) ([]dto.AttachmentResponse, error) {
	exists, err := s.contentRepo.Exists(ctx, kind, id)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify content", err.Error())
	}
	if !exists {
		return nil, contentNotFound(kind, id)
	}

	attachments, err := s.attachments.ListFor(ctx, domain.Owner{Kind: kind, ContentID: id})
	if err != nil {
		return nil, err
	}
	return dto.NewAttachmentResponses(attachments), nil
}

// applyTransforms normalizes the body and derives the kind's computed fields from it
func (s *contentServiceImpl) applyTransforms(spec domain.KindSpec, content *domain.Content, draft contentDraft) {
	content.Title = draft.Title
	content.Category = draft.Category
	content.Body = transform.NormalizeEmbeds(draft.Body)

	if spec.HasExcerpt {
		content.Excerpt = transform.DeriveExcerpt(content.Body, s.cfg.ExcerptLength)
	}
	if spec.HasImage {
		content.ImageURL = draft.ImageURL
		if content.ImageURL == "" {
			if src, ok := transform.ExtractFirstImageURL(content.Body); ok {
				content.ImageURL = src
			}
		}
	}
	if spec.KeyedByType {
		roadmapType := draft.RoadmapType
		content.RoadmapType = &roadmapType
	}
}

// Create stores a new record and registers its files. A roadmap create replaces the record of its type.
func (s *contentServiceImpl) Create(ctx context.Context, kind domain.Kind, req *dto.ContentDraftRequest, files []Upload, credential string) (*dto.ContentMutationResponse, error) {
	if err := s.authorize(ctx, credential); err != nil {
		return nil, err
	}
	spec, err := specOrError(kind)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &dto.ContentDraftRequest{}
	}

	draft := draftFromRequest(spec, req)
	if appErr := validateDraft(spec, draft); appErr != nil {
		return nil, appErr
	}

	if spec.KeyedByType {
		return s.upsertRoadmap(ctx, spec, draft, files)
	}

	content := &domain.Content{Kind: kind}
	s.applyTransforms(spec, content, draft)

	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create content", err.Error())
	}

	s.logger.Info("Content created",
		zap.String("content_kind", string(kind)),
		zap.String("content_id", content.ID.String()))
	if s.metrics != nil {
		s.metrics.IncrementContentCreated(string(kind))
	}

	return s.finishMutation(ctx, content, files)
}

// Update patches a record, re-deriving computed fields from the new body, and registers new files
func (s *contentServiceImpl) Update(ctx context.Context, kind domain.Kind, id uuid.UUID, req *dto.ContentPatchRequest, files []Upload, credential string) (*dto.ContentMutationResponse, error) {
	if err := s.authorize(ctx, credential); err != nil {
		return nil, err
	}
	spec, err := specOrError(kind)
	if err != nil {
		return nil, err
	}

	content, err := s.contentRepo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contentNotFound(kind, id)
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get content", err.Error())
	}

	draft := mergePatch(spec, content, req)
	if req != nil && req.Body != nil && req.ImageURL == nil && spec.HasImage && imageDerivedFromBody(content) {
		// the stored thumbnail came from the old body, so the new body derives it again
		draft.ImageURL = ""
	}
	if appErr := validateDraft(spec, draft); appErr != nil {
		return nil, appErr
	}

	s.applyTransforms(spec, content, draft)

	if err := s.contentRepo.UpdateFields(ctx, content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contentNotFound(kind, id)
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update content", err.Error())
	}

	s.logger.Info("Content updated",
		zap.String("content_kind", string(kind)),
		zap.String("content_id", content.ID.String()))

	return s.finishMutation(ctx, content, files)
}

func imageDerivedFromBody(content *domain.Content) bool {
	if content.ImageURL == "" {
		return true
	}
	derived, ok := transform.ExtractFirstImageURL(content.Body)
	return ok && derived == content.ImageURL
}

// UpsertRoadmap replaces the record of a roadmap type, keeping its id, views and attachments
func (s *contentServiceImpl) UpsertRoadmap(ctx context.Context, roadmapType domain.RoadmapType, req *dto.ContentDraftRequest, files []Upload, credential string) (*dto.ContentMutationResponse, error) {
	if err := s.authorize(ctx, credential); err != nil {
		return nil, err
	}
	spec, err := specOrError(domain.KindRoadmap)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &dto.ContentDraftRequest{}
	}

	draft := draftFromRequest(spec, req)
	draft.RoadmapType = roadmapType
	if appErr := validateDraft(spec, draft); appErr != nil {
		return nil, appErr
	}

	return s.upsertRoadmap(ctx, spec, draft, files)
}

func (s *contentServiceImpl) upsertRoadmap(ctx context.Context, spec domain.KindSpec, draft contentDraft, files []Upload) (*dto.ContentMutationResponse, error) {
	existing, err := s.contentRepo.FindRoadmapByType(ctx, draft.RoadmapType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get roadmap", err.Error())
	}

	if existing == nil {
		content := &domain.Content{Kind: domain.KindRoadmap}
		s.applyTransforms(spec, content, draft)

		createErr := s.contentRepo.Create(ctx, content)
		if createErr == nil {
			s.logger.Info("Roadmap created",
				zap.String("roadmap_type", string(draft.RoadmapType)),
				zap.String("content_id", content.ID.String()))
			if s.metrics != nil {
				s.metrics.IncrementContentCreated(string(domain.KindRoadmap))
			}
			return s.finishMutation(ctx, content, files)
		}

		// a concurrent create of the same type won the unique index; update that record instead
		existing, err = s.contentRepo.FindRoadmapByType(ctx, draft.RoadmapType)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create roadmap", createErr.Error())
		}
	}

	s.applyTransforms(spec, existing, draft)
	if err := s.contentRepo.UpdateFields(ctx, existing); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update roadmap", err.Error())
	}

	s.logger.Info("Roadmap replaced",
		zap.String("roadmap_type", string(draft.RoadmapType)),
		zap.String("content_id", existing.ID.String()))

	return s.finishMutation(ctx, existing, files)
}

// finishMutation registers files, drops cached pages and builds the response from stored state
func (s *contentServiceImpl) finishMutation(ctx context.Context, content *domain.Content, files []Upload) (*dto.ContentMutationResponse, error) {
	results := s.attachments.RegisterBatch(ctx, content.Owner(), files)

	if s.listCache != nil {
		s.listCache.Invalidate(ctx, string(content.Kind))
	}

	stored, err := s.contentRepo.FindByID(ctx, content.Kind, content.ID)
	if err != nil {
		s.logger.Warn("Failed to reload content after mutation",
			zap.String("content_id", content.ID.String()),
			zap.Error(err))
		stored = content
	}
	if err := s.loadAttachments(ctx, stored); err != nil {
		return nil, err
	}

	return &dto.ContentMutationResponse{
		ContentResponse: dto.NewContentResponse(stored),
		Uploads:         newUploadResultResponses(results),
	}, nil
}

func newUploadResultResponses(results []UploadResult) []dto.UploadResultResponse {
	out := make([]dto.UploadResultResponse, 0, len(results))
	for _, r := range results {
		item := dto.UploadResultResponse{
			OriginalName: r.OriginalName,
			Success:      r.Succeeded(),
		}
		if r.Attachment != nil {
			attachment := dto.NewAttachmentResponse(r.Attachment)
			item.Attachment = &attachment
		}
		if r.Err != nil {
			code := response.ErrCodeInternal
			message := r.Err.Error()
			var appErr *response.AppError
			if errors.As(r.Err, &appErr) {
				code = appErr.Code
				message = appErr.Message
			}
			item.Error = &dto.UploadError{Code: code, Message: message}
		}
		out = append(out, item)
	}
	return out
}

// Delete removes the record with its comments and attachment rows in one transaction, then the binaries
func (s *contentServiceImpl) Delete(ctx context.Context, kind domain.Kind, id uuid.UUID, credential string) error {
	if err := s.authorize(ctx, credential); err != nil {
		return err
	}
	if _, err := specOrError(kind); err != nil {
		return err
	}

	removed, err := s.contentRepo.DeleteCascade(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contentNotFound(kind, id)
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete content", err.Error())
	}

	s.attachments.RemoveBinaries(ctx, removed)

	if s.listCache != nil {
		s.listCache.Invalidate(ctx, string(kind))
	}

	s.logger.Info("Content deleted",
		zap.String("content_kind", string(kind)),
		zap.String("content_id", id.String()),
		zap.Int("attachments_removed", len(removed)))
	return nil
}

// RemoveAttachment deletes one attachment of any record. An absent attachment is not an error.
func (s *contentServiceImpl) RemoveAttachment(ctx context.Context, attachmentID uuid.UUID, credential string) error {
	if err := s.authorize(ctx, credential); err != nil {
		return err
	}

	attachment, err := s.attachments.Get(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find attachment", err.Error())
	}

	if err := s.attachments.Remove(ctx, attachmentID); err != nil {
		return err
	}

	if s.listCache != nil {
		s.listCache.Invalidate(ctx, string(attachment.ContentKind))
	}
	return nil
}
