package controllers

import (
	"campushub/internal/middleware"
	"campushub/internal/models"
	"campushub/internal/repository"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// BlobController serves both upload surfaces (/api/images and /api/files)
// from the shared blob store; images and files share one id space.
type BlobController struct {
	repo repository.BlobRepository
}

func NewBlobController(repo repository.BlobRepository) *BlobController {
	return &BlobController{repo: repo}
}

// UploadImages godoc
// @Summary Upload images
// @Description Store one or more images and return their blob ids in input order
// @Tags blob
// @Accept mpfd
// @Produce json
// @Param images formData file true "Image payloads"
// @Success 200 {object} map[string]interface{} "Images stored"
// @Failure 400 {object} map[string]interface{} "No payloads in request"
// @Router /api/images [post]
func (bc *BlobController) UploadImages(c *gin.Context) {
	bc.upload(c, models.BlobKindImage, "images")
}

// UploadFiles godoc
// @Summary Upload files
// @Description Store one or more downloadable files and return their blob ids in input order
// @Tags blob
// @Accept mpfd
// @Produce json
// @Param files formData file true "File payloads"
// @Success 200 {object} map[string]interface{} "Files stored"
// @Failure 400 {object} map[string]interface{} "No payloads in request"
// @Router /api/files [post]
func (bc *BlobController) UploadFiles(c *gin.Context) {
	bc.upload(c, models.BlobKindFile, "files")
}

func (bc *BlobController) upload(c *gin.Context, kind models.BlobKind, field string) {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid multipart form",
			"error":   err.Error(),
		})
		return
	}
	files := form.File[field]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "No payloads uploaded",
			"error":   fmt.Sprintf("At least one %q part is required", field),
		})
		return
	}

	ids := make([]uint, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, fileHeader := range files {
		blob, err := readBlob(fileHeader, kind, userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Failed to read uploaded payload",
				"error":   err.Error(),
			})
			return
		}
		if err := bc.repo.Create(blob); err != nil {
			respondError(c, err, "Failed to store payload")
			return
		}
		ids = append(ids, blob.ID)
		urls = append(urls, fmt.Sprintf("/api/%ss/%d", kind, blob.ID))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Payloads stored successfully",
		"data":    gin.H{"ids": ids, "urls": urls},
	})
}

func readBlob(fileHeader *multipart.FileHeader, kind models.BlobKind, uploaderID uint) (*models.Blob, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &models.Blob{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Kind:        kind,
		UploaderID:  &uploaderID,
		Data:        data,
	}, nil
}

// GetBlob godoc
// @Summary Fetch a blob payload
// @Description Stream the raw bytes with the stored content type
// @Tags blob
// @Produce octet-stream
// @Param id path int true "Blob ID"
// @Success 200 {file} binary "Payload"
// @Failure 404 {object} map[string]interface{} "Blob not found"
// @Router /api/images/{id} [get]
func (bc *BlobController) GetBlob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	blob, err := bc.repo.FindByID(id)
	if err != nil {
		respondError(c, err, "Blob not found")
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("inline; filename=%q", url.PathEscape(blob.Filename)))
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}

// GetBlobInfo returns metadata only, for list rendering without
// transferring payloads.
func (bc *BlobController) GetBlobInfo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	blob, err := bc.repo.FindInfoByID(id)
	if err != nil {
		respondError(c, err, "Blob not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Blob info retrieved successfully",
		"data":    blob,
	})
}

// DeleteBlob removes an orphaned blob by id. Deleting a blob never
// touches any article; references are managed on the article side.
func (bc *BlobController) DeleteBlob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := bc.repo.Delete(id); err != nil {
		respondError(c, err, "Blob not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Blob deleted successfully",
		"data":    nil,
	})
}
