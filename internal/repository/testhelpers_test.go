package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"school-portal-api/internal/domain"
)

// setupTestDB opens a private in-memory database with the portal schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "failed to open database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: databases are per connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Content{}, &domain.Attachment{}, &domain.Comment{}))
	return db
}

func seedContent(t *testing.T, db *gorm.DB, kind domain.Kind, title, category string, createdAt time.Time) *domain.Content {
	t.Helper()
	c := &domain.Content{
		BaseModel: domain.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
		Kind:      kind,
		Title:     title,
		Body:      "<p>" + title + "</p>",
		Category:  category,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedAttachment(t *testing.T, db *gorm.DB, owner domain.Owner, position int) *domain.Attachment {
	t.Helper()
	a := &domain.Attachment{
		ContentKind:  owner.Kind,
		ContentID:    owner.ContentID,
		OriginalName: "file.pdf",
		StoredName:   "content/" + string(owner.Kind) + "/" + uuid.NewString() + ".pdf",
		MediaType:    "application/pdf",
		SizeBytes:    1024,
		URL:          "https://files.example/x.pdf",
		Position:     position,
		UploadedAt:   time.Now(),
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func seedComment(t *testing.T, db *gorm.DB, owner domain.Owner, author string, createdAt time.Time) *domain.Comment {
	t.Helper()
	c := &domain.Comment{
		ContentKind: owner.Kind,
		ContentID:   owner.ContentID,
		Author:      author,
		Body:        "댓글",
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}
