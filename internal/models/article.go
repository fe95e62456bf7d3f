package models

import (
	"time"
)

// ArticleStatus is the moderation state of an article.
type ArticleStatus string

const (
	StatusPrivate ArticleStatus = "PRIVATE"
	StatusPending ArticleStatus = "PENDING"
	StatusPublic  ArticleStatus = "PUBLIC"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusPrivate, StatusPending, StatusPublic:
		return true
	}
	return false
}

// Partition is the top-level content area an article belongs to.
type Partition string

const (
	PartitionSquare   Partition = "SQUARE"
	PartitionNotice   Partition = "NOTICE"
	PartitionDownload Partition = "DOWNLOAD"
	PartitionLecture  Partition = "LECTURE"
)

func (p Partition) Valid() bool {
	switch p {
	case PartitionSquare, PartitionNotice, PartitionDownload, PartitionLecture:
		return true
	}
	return false
}

// IDList is an ordered set of entity ids stored as a jsonb column.
type IDList []uint

func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

type Article struct {
	ID          uint          `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt   time.Time     `json:"created_at" example:"2023-01-01T00:00:00Z"`
	UpdatedAt   time.Time     `json:"updated_at" example:"2023-01-01T00:00:00Z"`
	Title       string        `gorm:"not null" json:"title" example:"Campus library opening hours"`
	Content     string        `gorm:"type:text;not null" json:"content"`
	Description string        `json:"description,omitempty"`
	Status      ArticleStatus `gorm:"type:varchar(16);not null;default:'PRIVATE';index" json:"status"`
	Partition   Partition     `gorm:"type:varchar(16);not null;index" json:"partition"`
	Category    string        `json:"category,omitempty"`
	SubCategory string        `json:"sub_category,omitempty"`

	AuthorID uint  `gorm:"not null;index" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	// References into the blob store. Blobs are owned by this article:
	// removing a reference deletes the blob, deleting the article deletes
	// them all.
	CoverImageID  *uint  `json:"cover_image_id,omitempty"`
	ImageIDs      IDList `gorm:"type:jsonb;serializer:json" json:"image_ids"`
	AttachmentIDs IDList `gorm:"type:jsonb;serializer:json" json:"attachment_ids"`

	// Comment ids newest first. Mutated only by the comment repository, in
	// the same transaction as the comment row itself.
	CommentIDs IDList `gorm:"type:jsonb;serializer:json" json:"comment_ids"`

	// Filled by the repository from the article_likes table, not a column.
	LikeCount int64 `gorm:"-" json:"like_count"`
}

// ArticleSummary is the slim search result shape: id and title only.
type ArticleSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// BlobIDs returns every blob id the article references, cover included.
func (a *Article) BlobIDs() []uint {
	ids := make([]uint, 0, len(a.ImageIDs)+len(a.AttachmentIDs)+1)
	ids = append(ids, a.ImageIDs...)
	ids = append(ids, a.AttachmentIDs...)
	if a.CoverImageID != nil {
		ids = append(ids, *a.CoverImageID)
	}
	return ids
}

// ArticleLike is one user's like on one article. The unique index makes
// concurrent toggles by the same user collapse into a single row.
type ArticleLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_article_like_user" json:"article_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_article_like_user" json:"user_id"`
}
