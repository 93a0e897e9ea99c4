package handler

import (
	"context"

	"github.com/google/uuid"

	"school-portal-api/internal/domain"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/response"
	"school-portal-api/internal/service"
)

// MockContentService is a mock implementation of service.ContentService
type MockContentService struct {
	ListFunc             func(ctx context.Context, kind domain.Kind, query *dto.ListContentQuery) (*dto.ContentListResponse, error)
	GetFunc              func(ctx context.Context, kind domain.Kind, id uuid.UUID, detailView bool) (*dto.ContentResponse, error)
	GetRoadmapFunc       func(ctx context.Context, roadmapType domain.RoadmapType) (*dto.ContentResponse, error)
	ListAttachmentsFunc  func(ctx context.Context, kind domain.Kind, id uuid.UUID) ([]dto.AttachmentResponse, error)
	CreateFunc           func(ctx context.Context, kind domain.Kind, req *dto.ContentDraftRequest, files []service.Upload, credential string) (*dto.ContentMutationResponse, error)
	UpdateFunc           func(ctx context.Context, kind domain.Kind, id uuid.UUID, req *dto.ContentPatchRequest, files []service.Upload, credential string) (*dto.ContentMutationResponse, error)
	UpsertRoadmapFunc    func(ctx context.Context, roadmapType domain.RoadmapType, req *dto.ContentDraftRequest, files []service.Upload, credential string) (*dto.ContentMutationResponse, error)
	DeleteFunc           func(ctx context.Context, kind domain.Kind, id uuid.UUID, credential string) error
	RemoveAttachmentFunc func(ctx context.Context, attachmentID uuid.UUID, credential string) error
}

func notMocked() error {
	return response.NewAppError(response.ErrCodeInternal, "not mocked", "")
}

func (m *MockContentService) List(ctx context.Context, kind domain.Kind, query *dto.ListContentQuery) (*dto.ContentListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind, query)
	}
	return nil, notMocked()
}

func (m *MockContentService) Get(ctx context.Context, kind domain.Kind, id uuid.UUID, detailView bool) (*dto.ContentResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, kind, id, detailView)
	}
	return nil, notMocked()
}

func (m *MockContentService) GetRoadmap(ctx context.Context, roadmapType domain.RoadmapType) (*dto.ContentResponse, error) {
	if m.GetRoadmapFunc != nil {
		return m.GetRoadmapFunc(ctx, roadmapType)
	}
	return nil, notMocked()
}

func (m *MockContentService) ListAttachments(ctx context.Context, kind domain.Kind, id uuid.UUID) ([]dto.AttachmentResponse, error) {
	if m.ListAttachmentsFunc != nil {
		return m.ListAttachmentsFunc(ctx, kind, id)
	}
	return nil, notMocked()
}

func (m *MockContentService) Create(ctx context.Context, kind domain.Kind, req *dto.ContentDraftRequest, files []service.Upload, credential string) (*dto.ContentMutationResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, kind, req, files, credential)
	}
	return nil, notMocked()
}

func (m *MockContentService) Update(ctx context.Context, kind domain.Kind, id uuid.UUID, req *dto.ContentPatchRequest, files []service.Upload, credential string) (*dto.ContentMutationResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, kind, id, req, files, credential)
	}
	return nil, notMocked()
}

func (m *MockContentService) UpsertRoadmap(ctx context.Context, roadmapType domain.RoadmapType, req *dto.ContentDraftRequest, files []service.Upload, credential string) (*dto.ContentMutationResponse, error) {
	if m.UpsertRoadmapFunc != nil {
		return m.UpsertRoadmapFunc(ctx, roadmapType, req, files, credential)
	}
	return nil, notMocked()
}

func (m *MockContentService) Delete(ctx context.Context, kind domain.Kind, id uuid.UUID, credential string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, kind, id, credential)
	}
	return notMocked()
}

func (m *MockContentService) RemoveAttachment(ctx context.Context, attachmentID uuid.UUID, credential string) error {
	if m.RemoveAttachmentFunc != nil {
		return m.RemoveAttachmentFunc(ctx, attachmentID, credential)
	}
	return notMocked()
}

// MockCommentService is a mock implementation of service.CommentService
type MockCommentService struct {
	ListForFunc func(ctx context.Context, kind domain.Kind, contentID uuid.UUID) ([]dto.CommentResponse, error)
	CreateFunc  func(ctx context.Context, kind domain.Kind, contentID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	DeleteFunc  func(ctx context.Context, commentID uuid.UUID, credential string) error
}

func (m *MockCommentService) ListFor(ctx context.Context, kind domain.Kind, contentID uuid.UUID) ([]dto.CommentResponse, error) {
	if m.ListForFunc != nil {
		return m.ListForFunc(ctx, kind, contentID)
	}
	return nil, notMocked()
}

func (m *MockCommentService) Create(ctx context.Context, kind domain.Kind, contentID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, kind, contentID, req)
	}
	return nil, notMocked()
}

func (m *MockCommentService) Delete(ctx context.Context, commentID uuid.UUID, credential string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, commentID, credential)
	}
	return notMocked()
}
