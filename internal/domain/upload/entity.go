// internal/domain/upload/entity.go
package upload

import (
	"time"
)

// UploadedFile records an image stored under the upload directory
type UploadedFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	Filename     string    `gorm:"size:255;uniqueIndex" json:"filename"`
	URL          string    `gorm:"size:500" json:"url"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	Size         int64     `json:"size"`
	UploadedBy   uint      `gorm:"index" json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name for UploadedFile
func (UploadedFile) TableName() string {
	return "uploaded_files"
}
