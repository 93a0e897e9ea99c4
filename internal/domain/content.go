package domain

import "github.com/google/uuid"

// Kind identifies one of the content families served by the portal
type Kind string

const (
	KindNotice    Kind = "notice"
	KindGallery   Kind = "gallery"
	KindRoadmap   Kind = "roadmap"
	KindAdmission Kind = "admission"
)

// RoadmapType is the key of a Roadmap record; at most one record exists per type
type RoadmapType string

const (
	RoadmapMiddleSchool RoadmapType = "middle_school"
	RoadmapHighSchool   RoadmapType = "high_school"
)

// IsValid reports whether the roadmap type is known
func (t RoadmapType) IsValid() bool {
	return t == RoadmapMiddleSchool || t == RoadmapHighSchool
}

// Query-only category wildcards. They are never stored.
const (
	CategoryWildcardKo = "전체"
	CategoryWildcardEn = "all"
)

// IsCategoryWildcard reports whether the category filter means "every category"
func IsCategoryWildcard(category string) bool {
	return category == "" || category == CategoryWildcardKo || category == CategoryWildcardEn
}

// Content is a single record of any kind. Kind-specific columns are empty for kinds that don't use them.
type Content struct {
	BaseModel
	Kind        Kind         `gorm:"type:varchar(20);not null;index:idx_contents_kind" json:"-"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Body        string       `gorm:"type:text;not null" json:"body"`
	Category    string       `gorm:"type:varchar(50);not null;index" json:"category"`
	ViewCount   int64        `gorm:"not null;default:0" json:"viewCount"`
	Excerpt     string       `gorm:"type:text" json:"excerpt,omitempty"`
	ImageURL    string       `gorm:"type:text" json:"imageUrl,omitempty"`
	RoadmapType *RoadmapType `gorm:"type:varchar(20);uniqueIndex:idx_contents_roadmap_type" json:"type,omitempty"`
	// Attachments are loaded separately by owner; there is no foreign key
	Attachments []*Attachment `gorm:"-" json:"attachments"`
}

// TableName specifies the table name for Content
func (Content) TableName() string {
	return "contents"
}

// Owner returns the attachment/comment owner key of this record
func (c *Content) Owner() Owner {
	return Owner{Kind: c.Kind, ContentID: c.ID}
}

// Owner identifies the content record that attachments and comments hang off
type Owner struct {
	Kind      Kind
	ContentID uuid.UUID
}
