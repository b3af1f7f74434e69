package models

import "time"

// Attachment is a file or external link attached to an initiative.
type Attachment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	InitiativeID    uint           `gorm:"not null;index" json:"initiative_id"`
	AttachmentType  AttachmentType `gorm:"type:varchar(20);not null" json:"attachment_type"`
	FilePath        *string        `gorm:"type:text" json:"file_path"`
	ExternalURL     *string        `gorm:"type:text" json:"external_url"`
	StorageProvider string         `gorm:"type:varchar(20);not null;default:LOCAL" json:"storage_provider"`
	Filename        string         `gorm:"type:varchar(255)" json:"filename"`
	FileSize        *int64         `json:"file_size"`
	MimeType        string         `gorm:"type:varchar(100)" json:"mime_type"`
	CreatedAt       time.Time      `json:"created_at"`
	CreatedBy       *uint          `json:"created_by"`

	// URL is resolved from the storage provider on read. Not a column.
	URL string `gorm:"-" json:"url,omitempty"`
}

func (Attachment) TableName() string { return "initiative_attachments" }
