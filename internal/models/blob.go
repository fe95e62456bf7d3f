package models

import (
	"time"
)

// BlobKind separates the two upload surfaces (inline/cover images vs
// downloadable files). Both kinds live in the same store and share ids.
type BlobKind string

const (
	BlobKindImage BlobKind = "image"
	BlobKindFile  BlobKind = "file"
)

// Blob is an opaque binary payload stored independently of the article
// that references it (upload first, associate later).
type Blob struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Filename    string    `gorm:"not null" json:"filename"`
	ContentType string    `gorm:"not null" json:"content_type"`
	Size        int64     `json:"size"`
	Kind        BlobKind  `gorm:"type:varchar(8);not null;index" json:"kind"`
	UploaderID  *uint     `gorm:"index" json:"uploader_id,omitempty"`
	Data        []byte    `gorm:"type:bytea" json:"-"`
}
