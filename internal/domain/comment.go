package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a flat public comment on a content record
type Comment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentKind Kind      `gorm:"type:varchar(20);not null;index:idx_comments_owner,priority:1" json:"type"`
	ContentID   uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_owner,priority:2" json:"postId"`
	Author      string    `gorm:"type:varchar(200);not null" json:"author"`
	Body        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns the comment id
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
