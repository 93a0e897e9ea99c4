package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"school-portal-api/internal/config"
	"school-portal-api/internal/domain"
	"school-portal-api/internal/repository"
	"school-portal-api/internal/response"
)

var testContentConfig = config.ContentConfig{
	MaxAttachments:   5,
	MaxFileSizeBytes: 10 * 1024 * 1024,
	ExcerptLength:    120,
}

// trackedReader records whether the upload stream was opened and closed
type trackedReader struct {
	io.Reader
	closed bool
}

func (r *trackedReader) Close() error {
	r.closed = true
	return nil
}

type trackedUpload struct {
	Upload
	opened bool
	reader *trackedReader
}

func newTrackedUpload(name, mediaType string, size int64) *trackedUpload {
	u := &trackedUpload{}
	u.reader = &trackedReader{Reader: bytes.NewReader(make([]byte, 16))}
	u.Upload = Upload{
		OriginalName: name,
		MediaType:    mediaType,
		Size:         size,
		Open: func() (io.ReadCloser, error) {
			u.opened = true
			return u.reader, nil
		},
	}
	return u
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *response.AppError
	require.True(t, errors.As(err, &appErr), "expected *response.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestAttachmentRegistry_Register(t *testing.T) {
	owner := domain.Owner{Kind: domain.KindNotice, ContentID: uuid.New()}

	tests := []struct {
		name        string
		upload      *trackedUpload
		count       int64
		wantErrCode string
		wantOpened  bool
	}{
		{
			name:       "성공: PDF 등록",
			upload:     newTrackedUpload("가정통신문.pdf", "application/pdf", 2048),
			wantOpened: true,
		},
		{
			name:       "성공: 정확히 10MiB",
			upload:     newTrackedUpload("photo.png", "image/png", 10*1024*1024),
			wantOpened: true,
		},
		{
			name:       "성공: octet-stream은 확장자로 판별",
			upload:     newTrackedUpload("report.docx", "application/octet-stream", 100),
			wantOpened: true,
		},
		{
			name:        "실패: 10MiB 초과",
			upload:      newTrackedUpload("big.png", "image/png", 10*1024*1024+1),
			wantErrCode: response.ErrCodePayloadTooLarge,
		},
		{
			name:        "실패: 허용되지 않은 형식",
			upload:      newTrackedUpload("run.exe", "application/x-msdownload", 100),
			wantErrCode: response.ErrCodeUnsupportedMediaType,
		},
		{
			name:        "실패: 확장자와 형식 불일치",
			upload:      newTrackedUpload("image.png", "application/pdf", 100),
			wantErrCode: response.ErrCodeUnsupportedMediaType,
		},
		{
			name:        "실패: 첨부 한도 초과",
			upload:      newTrackedUpload("sixth.pdf", "application/pdf", 100),
			count:       5,
			wantErrCode: response.ErrCodeQuotaExceeded,
		},
		{
			name:        "실패: 크기 검사가 한도 검사보다 먼저",
			upload:      newTrackedUpload("big.pdf", "application/pdf", 11*1024*1024),
			count:       5,
			wantErrCode: response.ErrCodePayloadTooLarge,
		},
		{
			name:        "실패: 빈 파일",
			upload:      newTrackedUpload("empty.pdf", "application/pdf", 0),
			wantErrCode: response.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			var created *domain.Attachment
			repo := &MockAttachmentRepository{
				CountByOwnerFunc: func(ctx context.Context, o domain.Owner) (int64, error) {
					return tt.count, nil
				},
				CreateFunc: func(ctx context.Context, a *domain.Attachment) error {
					created = a
					return nil
				},
			}
			store := &MockObjectStore{}
			registry := NewAttachmentRegistry(repo, store, testContentConfig, nil, nil)

			// When
			got, err := registry.Register(context.Background(), owner, tt.upload.Upload)

			// Then
			assert.Equal(t, tt.wantOpened, tt.upload.opened)
			if tt.wantErrCode != "" {
				assertAppErrorCode(t, err, tt.wantErrCode)
				assert.Nil(t, got)
				assert.Nil(t, created, "rejected files must not create metadata")
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.upload.reader.closed, "upload stream must be closed")
			assert.Equal(t, tt.upload.OriginalName, got.OriginalName)
			assert.Equal(t, owner.ContentID, got.ContentID)
			assert.Equal(t, int(tt.count), got.Position)
			assert.Contains(t, got.StoredName, "content/notice/"+owner.ContentID.String())
			assert.Equal(t, store.GetFileURL(got.StoredName), got.URL)
		})
	}
}

func TestAttachmentRegistry_Register_BinaryWriteFails(t *testing.T) {
	createCalled := false
	repo := &MockAttachmentRepository{
		CreateFunc: func(ctx context.Context, a *domain.Attachment) error {
			createCalled = true
			return nil
		},
	}
	store := &MockObjectStore{
		UploadFileFunc: func(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
			return "", errors.New("s3 unavailable")
		},
	}
	registry := NewAttachmentRegistry(repo, store, testContentConfig, nil, nil)
	upload := newTrackedUpload("a.pdf", "application/pdf", 100)

	_, err := registry.Register(context.Background(), domain.Owner{Kind: domain.KindNotice, ContentID: uuid.New()}, upload.Upload)

	assertAppErrorCode(t, err, response.ErrCodeInternal)
	assert.False(t, createCalled, "a failed binary write never creates metadata")
	assert.True(t, upload.reader.closed)
}

func TestAttachmentRegistry_Register_MetadataWriteFailsRemovesBinary(t *testing.T) {
	repo := &MockAttachmentRepository{
		CreateFunc: func(ctx context.Context, a *domain.Attachment) error {
			return errors.New("insert failed")
		},
	}
	store := &MockObjectStore{}
	registry := NewAttachmentRegistry(repo, store, testContentConfig, nil, nil)

	var uploadedKey string
	store.UploadFileFunc = func(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
		uploadedKey = key
		return store.GetFileURL(key), nil
	}

	_, err := registry.Register(context.Background(), domain.Owner{Kind: domain.KindGallery, ContentID: uuid.New()},
		newTrackedUpload("a.png", "image/png", 100).Upload)

	assertAppErrorCode(t, err, response.ErrCodeInternal)
	require.NotEmpty(t, uploadedKey)
	assert.Equal(t, []string{uploadedKey}, store.Deleted())
}

func TestAttachmentRegistry_Register_CancelledAfterWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	createCalled := false
	repo := &MockAttachmentRepository{
		CreateFunc: func(ctx context.Context, a *domain.Attachment) error {
			createCalled = true
			return nil
		},
	}
	store := &MockObjectStore{}
	store.UploadFileFunc = func(c context.Context, key string, file io.Reader, contentType string) (string, error) {
		cancel()
		return store.GetFileURL(key), nil
	}
	registry := NewAttachmentRegistry(repo, store, testContentConfig, nil, nil)

	_, err := registry.Register(ctx, domain.Owner{Kind: domain.KindNotice, ContentID: uuid.New()},
		newTrackedUpload("a.pdf", "application/pdf", 100).Upload)

	require.Error(t, err)
	assert.False(t, createCalled)
	assert.Len(t, store.Deleted(), 1, "the written object is compensated")
}

func TestAttachmentRegistry_RegisterBatch_IndependentResults(t *testing.T) {
	owner := domain.Owner{Kind: domain.KindNotice, ContentID: uuid.New()}
	var count int64
	repo := &MockAttachmentRepository{
		CountByOwnerFunc: func(ctx context.Context, o domain.Owner) (int64, error) {
			return count, nil
		},
		CreateFunc: func(ctx context.Context, a *domain.Attachment) error {
			count++
			return nil
		},
	}
	registry := NewAttachmentRegistry(repo, &MockObjectStore{}, testContentConfig, nil, nil)

	uploads := []Upload{
		newTrackedUpload("one.pdf", "application/pdf", 100).Upload,
		newTrackedUpload("huge.pdf", "application/pdf", 20*1024*1024).Upload,
		newTrackedUpload("two.png", "image/png", 100).Upload,
		newTrackedUpload("virus.exe", "application/octet-stream", 100).Upload,
	}

	results := registry.RegisterBatch(context.Background(), owner, uploads)

	require.Len(t, results, 4)
	assert.True(t, results[0].Succeeded())
	assert.False(t, results[1].Succeeded())
	assertAppErrorCode(t, results[1].Err, response.ErrCodePayloadTooLarge)
	assert.True(t, results[2].Succeeded())
	assert.Equal(t, 1, results[2].Attachment.Position)
	assert.False(t, results[3].Succeeded())
	assertAppErrorCode(t, results[3].Err, response.ErrCodeUnsupportedMediaType)
	assert.Equal(t, int64(2), count)
}

func TestAttachmentRegistry_Remove(t *testing.T) {
	t.Run("성공: 메타데이터와 파일 삭제", func(t *testing.T) {
		id := uuid.New()
		deletedID := uuid.Nil
		repo := &MockAttachmentRepository{
			FindByIDFunc: func(ctx context.Context, got uuid.UUID) (*domain.Attachment, error) {
				return &domain.Attachment{ID: got, StoredName: "content/notice/x/a.pdf"}, nil
			},
			DeleteFunc: func(ctx context.Context, got uuid.UUID) (bool, error) {
				deletedID = got
				return true, nil
			},
		}
		store := &MockObjectStore{}
		registry := NewAttachmentRegistry(repo, store, testContentConfig, nil, nil)

		require.NoError(t, registry.Remove(context.Background(), id))
		assert.Equal(t, id, deletedID)
		assert.Equal(t, []string{"content/notice/x/a.pdf"}, store.Deleted())
	})

	t.Run("성공: 없는 첨부 삭제는 멱등", func(t *testing.T) {
		repo := &MockAttachmentRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
				return nil, gorm.ErrRecordNotFound
			},
			DeleteFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
				t.Fatal("Delete must not be called for an absent attachment")
				return false, nil
			},
		}
		store := &MockObjectStore{}
		registry := NewAttachmentRegistry(repo, store, testContentConfig, nil, nil)

		assert.NoError(t, registry.Remove(context.Background(), uuid.New()))
		assert.NoError(t, registry.Remove(context.Background(), uuid.New()))
		assert.Empty(t, store.Deleted())
	})

	t.Run("성공: 파일 삭제 실패는 무시", func(t *testing.T) {
		repo := &MockAttachmentRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
				return &domain.Attachment{ID: id, StoredName: "k"}, nil
			},
		}
		store := &MockObjectStore{
			DeleteFileFunc: func(ctx context.Context, key string) error {
				return errors.New("s3 down")
			},
		}
		registry := NewAttachmentRegistry(repo, store, testContentConfig, nil, nil)

		assert.NoError(t, registry.Remove(context.Background(), uuid.New()))
	})
}

func TestNormalizeMediaType(t *testing.T) {
	tests := []struct {
		fileName    string
		contentType string
		want        string
	}{
		{"a.pdf", "application/pdf", "application/pdf"},
		{"a.txt", "text/plain; charset=utf-8", "text/plain"},
		{"a.PNG", "IMAGE/PNG", "image/png"},
		{"a.png", "", "image/png"},
		{"a.hwp", "application/octet-stream", "application/x-hwp"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName+"_"+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMediaType(tt.fileName, tt.contentType))
		})
	}
}

func TestAttachmentRegistry_Register_QuotaRecheckedAtInsert(t *testing.T) {
	tests := []struct {
		name     string
		insert   error
		wantCode string
	}{
		{"실패: 동시 업로드로 한도가 먼저 찬 경우", repository.ErrAttachmentQuotaExceeded, response.ErrCodeQuotaExceeded},
		{"실패: 첨부 대상이 먼저 삭제된 경우", gorm.ErrRecordNotFound, response.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockAttachmentRepository{
				// the pre-check still sees a free slot
				CountByOwnerFunc: func(ctx context.Context, o domain.Owner) (int64, error) {
					return 4, nil
				},
				CreateWithinQuotaFunc: func(ctx context.Context, a *domain.Attachment, limit int) error {
					assert.Equal(t, testContentConfig.MaxAttachments, limit)
					return tt.insert
				},
			}
			store := &MockObjectStore{}
			var uploadedKey string
			store.UploadFileFunc = func(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
				uploadedKey = key
				return store.GetFileURL(key), nil
			}
			registry := NewAttachmentRegistry(repo, store, testContentConfig, nil, nil)

			got, err := registry.Register(context.Background(), domain.Owner{Kind: domain.KindNotice, ContentID: uuid.New()},
				newTrackedUpload("fifth.pdf", "application/pdf", 100).Upload)

			assert.Nil(t, got)
			assertAppErrorCode(t, err, tt.wantCode)
			require.NotEmpty(t, uploadedKey)
			assert.Equal(t, []string{uploadedKey}, store.Deleted())
		})
	}
}
