package service

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"school-portal-api/internal/auth"
	"school-portal-api/internal/client"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/dto"
	"school-portal-api/internal/repository"
)

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	CreateFunc                  func(ctx context.Context, content *domain.Content) error
	FindByIDFunc                func(ctx context.Context, kind domain.Kind, id uuid.UUID) (*domain.Content, error)
	FindRoadmapByTypeFunc       func(ctx context.Context, roadmapType domain.RoadmapType) (*domain.Content, error)
	ListFunc                    func(ctx context.Context, kind domain.Kind, filter repository.ContentFilter) ([]*domain.Content, int64, error)
	ExistsFunc                  func(ctx context.Context, kind domain.Kind, id uuid.UUID) (bool, error)
	UpdateFieldsFunc            func(ctx context.Context, content *domain.Content) error
	IncrementViewCountFunc      func(ctx context.Context, kind domain.Kind, id uuid.UUID) (bool, error)
	FindGalleryWithoutImageFunc func(ctx context.Context, after *repository.ContentCursor, limit int) ([]*domain.Content, error)
	BackfillImageURLFunc        func(ctx context.Context, id uuid.UUID, imageURL string) (bool, error)
	DeleteCascadeFunc           func(ctx context.Context, kind domain.Kind, id uuid.UUID) ([]*domain.Attachment, error)
}

func (m *MockContentRepository) Create(ctx context.Context, content *domain.Content) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, content)
	}
	return nil
}

func (m *MockContentRepository) FindByID(ctx context.Context, kind domain.Kind, id uuid.UUID) (*domain.Content, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, kind, id)
	}
	return nil, nil
}

func (m *MockContentRepository) FindRoadmapByType(ctx context.Context, roadmapType domain.RoadmapType) (*domain.Content, error) {
	if m.FindRoadmapByTypeFunc != nil {
		return m.FindRoadmapByTypeFunc(ctx, roadmapType)
	}
	return nil, nil
}

func (m *MockContentRepository) List(ctx context.Context, kind domain.Kind, filter repository.ContentFilter) ([]*domain.Content, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind, filter)
	}
	return nil, 0, nil
}

func (m *MockContentRepository) Exists(ctx context.Context, kind domain.Kind, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, kind, id)
	}
	return false, nil
}

func (m *MockContentRepository) UpdateFields(ctx context.Context, content *domain.Content) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, content)
	}
	return nil
}

func (m *MockContentRepository) IncrementViewCount(ctx context.Context, kind domain.Kind, id uuid.UUID) (bool, error) {
	if m.IncrementViewCountFunc != nil {
		return m.IncrementViewCountFunc(ctx, kind, id)
	}
	return false, nil
}

func (m *MockContentRepository) FindGalleryWithoutImage(ctx context.Context, after *repository.ContentCursor, limit int) ([]*domain.Content, error) {
	if m.FindGalleryWithoutImageFunc != nil {
		return m.FindGalleryWithoutImageFunc(ctx, after, limit)
	}
	return nil, nil
}

func (m *MockContentRepository) BackfillImageURL(ctx context.Context, id uuid.UUID, imageURL string) (bool, error) {
	if m.BackfillImageURLFunc != nil {
		return m.BackfillImageURLFunc(ctx, id, imageURL)
	}
	return false, nil
}

func (m *MockContentRepository) DeleteCascade(ctx context.Context, kind domain.Kind, id uuid.UUID) ([]*domain.Attachment, error) {
	if m.DeleteCascadeFunc != nil {
		return m.DeleteCascadeFunc(ctx, kind, id)
	}
	return nil, nil
}

// MockAttachmentRepository is a mock implementation of AttachmentRepository
type MockAttachmentRepository struct {
	CreateFunc            func(ctx context.Context, attachment *domain.Attachment) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	FindByOwnerFunc       func(ctx context.Context, owner domain.Owner) ([]*domain.Attachment, error)
	FindByOwnersFunc      func(ctx context.Context, kind domain.Kind, contentIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error)
	CountByOwnerFunc      func(ctx context.Context, owner domain.Owner) (int64, error)
	CreateWithinQuotaFunc func(ctx context.Context, attachment *domain.Attachment, limit int) error
	DeleteFunc            func(ctx context.Context, id uuid.UUID) (bool, error)
	FindOrphansFunc       func(ctx context.Context, limit int) ([]*domain.Attachment, error)
	DeleteBatchFunc       func(ctx context.Context, attachmentIDs []uuid.UUID) error
}

func (m *MockAttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, attachment)
	}
	return nil
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) FindByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Attachment, error) {
	if m.FindByOwnerFunc != nil {
		return m.FindByOwnerFunc(ctx, owner)
	}
	return []*domain.Attachment{}, nil
}

func (m *MockAttachmentRepository) FindByOwners(ctx context.Context, kind domain.Kind, contentIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error) {
	if m.FindByOwnersFunc != nil {
		return m.FindByOwnersFunc(ctx, kind, contentIDs)
	}
	return map[uuid.UUID][]*domain.Attachment{}, nil
}

func (m *MockAttachmentRepository) CountByOwner(ctx context.Context, owner domain.Owner) (int64, error) {
	if m.CountByOwnerFunc != nil {
		return m.CountByOwnerFunc(ctx, owner)
	}
	return 0, nil
}

// CreateWithinQuota falls back to CountByOwner and Create when no func is set
func (m *MockAttachmentRepository) CreateWithinQuota(ctx context.Context, attachment *domain.Attachment, limit int) error {
	if m.CreateWithinQuotaFunc != nil {
		return m.CreateWithinQuotaFunc(ctx, attachment, limit)
	}
	count, err := m.CountByOwner(ctx, attachment.Owner())
	if err != nil {
		return err
	}
	if count >= int64(limit) {
		return repository.ErrAttachmentQuotaExceeded
	}
	attachment.Position = int(count)
	return m.Create(ctx, attachment)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *MockAttachmentRepository) FindOrphans(ctx context.Context, limit int) ([]*domain.Attachment, error) {
	if m.FindOrphansFunc != nil {
		return m.FindOrphansFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) DeleteBatch(ctx context.Context, attachmentIDs []uuid.UUID) error {
	if m.DeleteBatchFunc != nil {
		return m.DeleteBatchFunc(ctx, attachmentIDs)
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc      func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByOwnerFunc func(ctx context.Context, owner domain.Owner) ([]*domain.Comment, error)
	DeleteFunc      func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Comment, error) {
	if m.FindByOwnerFunc != nil {
		return m.FindByOwnerFunc(ctx, owner)
	}
	return []*domain.Comment{}, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

// MockObjectStore is a mock implementation of client.ObjectStore that records deleted keys
type MockObjectStore struct {
	UploadFileFunc func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFileFunc func(ctx context.Context, key string) error

	mu      sync.Mutex
	deleted []string
}

func (m *MockObjectStore) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, file, contentType)
	}
	return m.GetFileURL(key), nil
}

func (m *MockObjectStore) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, key)
	m.mu.Unlock()
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

func (m *MockObjectStore) GetFileURL(key string) string {
	return "https://files.example/" + key
}

func (m *MockObjectStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

var _ client.ObjectStore = (*MockObjectStore)(nil)

// MockListCache is an in-memory ListCache that versions pages per kind and counts invalidations
type MockListCache struct {
	mu            sync.Mutex
	pages         map[string]interface{}
	versions      map[string]int64
	invalidations map[string]int
}

func NewMockListCache() *MockListCache {
	return &MockListCache{
		pages:         map[string]interface{}{},
		versions:      map[string]int64{},
		invalidations: map[string]int{},
	}
}

func (m *MockListCache) Get(ctx context.Context, kind, key string, dest interface{}) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	version := m.versions[kind]
	v, ok := m.pages[kind+"|"+key]
	if !ok {
		return version, false
	}
	if out, ok := dest.(*dto.ContentListResponse); ok {
		*out = *(v.(*dto.ContentListResponse))
	}
	return version, true
}

// Set drops pages computed under an invalidated version
func (m *MockListCache) Set(ctx context.Context, kind string, version int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version != m.versions[kind] {
		return
	}
	m.pages[kind+"|"+key] = value
}

func (m *MockListCache) Invalidate(ctx context.Context, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[kind]++
	m.invalidations[kind]++
	for k := range m.pages {
		if strings.HasPrefix(k, kind+"|") {
			delete(m.pages, k)
		}
	}
}

// Cached reports how many pages of kind are stored
func (m *MockListCache) Cached(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.pages {
		if strings.HasPrefix(k, kind+"|") {
			n++
		}
	}
	return n
}

func (m *MockListCache) Invalidations(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidations[kind]
}

// MockNotificationClient records sent events
type MockNotificationClient struct {
	SendNotificationFunc func(ctx context.Context, event client.NotificationEvent) error

	mu     sync.Mutex
	events []client.NotificationEvent
}

func (m *MockNotificationClient) SendNotification(ctx context.Context, event client.NotificationEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.SendNotificationFunc != nil {
		return m.SendNotificationFunc(ctx, event)
	}
	return nil
}

func (m *MockNotificationClient) Events() []client.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]client.NotificationEvent(nil), m.events...)
}

const adminCredential = "admin-token"

// testGuard accepts only adminCredential
var testGuard = auth.GuardFunc(func(ctx context.Context, credential string) bool {
	return credential == adminCredential
})
