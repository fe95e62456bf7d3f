package repository

import (
	"campushub/internal/apperr"
	"campushub/internal/models"
	"errors"
	"log"

	"gorm.io/gorm"
)

type BlobRepository interface {
	Create(blob *models.Blob) error
	// FindByID returns the blob including its payload.
	FindByID(id uint) (*models.Blob, error)
	// FindInfoByID returns metadata only; the payload column is never read.
	FindInfoByID(id uint) (*models.Blob, error)
	Exists(id uint) (bool, error)
	Delete(id uint) error
}

type blobRepository struct {
	db *gorm.DB
}

func NewBlobRepository(db *gorm.DB) BlobRepository {
	return &blobRepository{db: db}
}

func (r *blobRepository) Create(blob *models.Blob) error {
	if err := r.db.Create(blob).Error; err != nil {
		log.Printf("Error storing blob %q: %v", blob.Filename, err)
		return err
	}
	return nil
}

func (r *blobRepository) FindByID(id uint) (*models.Blob, error) {
	var blob models.Blob
	err := r.db.First(&blob, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &blob, nil
}

func (r *blobRepository) FindInfoByID(id uint) (*models.Blob, error) {
	var blob models.Blob
	err := r.db.Select("id", "created_at", "filename", "content_type", "size", "kind", "uploader_id").
		First(&blob, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &blob, nil
}

func (r *blobRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Blob{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *blobRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Blob{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
