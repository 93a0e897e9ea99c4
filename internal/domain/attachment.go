package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is the metadata of a stored file owned by exactly one content record.
// ⚠️ ContentID is polymorphic over kinds; no foreign key is declared
type Attachment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentKind  Kind      `gorm:"type:varchar(20);not null;index:idx_attachments_owner,priority:1" json:"-"`
	ContentID    uuid.UUID `gorm:"type:uuid;not null;index:idx_attachments_owner,priority:2" json:"-"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"originalName"`
	StoredName   string    `gorm:"type:varchar(512);not null;uniqueIndex" json:"filename"`
	MediaType    string    `gorm:"type:varchar(100);not null" json:"mimetype"`
	SizeBytes    int64     `gorm:"not null" json:"size"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	Position     int       `gorm:"not null;default:0" json:"-"`
	UploadedAt   time.Time `gorm:"not null" json:"uploadedAt"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}

// Owner returns the owning record key
func (a *Attachment) Owner() Owner {
	return Owner{Kind: a.ContentKind, ContentID: a.ContentID}
}

// BeforeCreate assigns the attachment id when the caller did not
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
