package controllers

import (
	"campushub/internal/middleware"
	"campushub/internal/models"
	"campushub/internal/repository"
	"campushub/internal/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type ArticleController struct {
	svc   *services.ArticleService
	repo  repository.ArticleRepository
	blobs repository.BlobRepository
}

func NewArticleController(svc *services.ArticleService, repo repository.ArticleRepository, blobs repository.BlobRepository) *ArticleController {
	return &ArticleController{svc: svc, repo: repo, blobs: blobs}
}

type articleRequest struct {
	Title         string           `json:"title" binding:"required"`
	Content       string           `json:"content" binding:"required"`
	Description   string           `json:"description"`
	Partition     models.Partition `json:"partition" binding:"required"`
	Category      string           `json:"category"`
	SubCategory   string           `json:"sub_category"`
	CoverImageID  *uint            `json:"cover_image_id"`
	ImageIDs      []uint           `json:"image_ids"`
	AttachmentIDs []uint           `json:"attachment_ids"`
	Publish       bool             `json:"publish"`
}

func (r articleRequest) toInput() services.ArticleInput {
	return services.ArticleInput{
		Title:         r.Title,
		Content:       r.Content,
		Description:   r.Description,
		Partition:     r.Partition,
		Category:      r.Category,
		SubCategory:   r.SubCategory,
		CoverImageID:  r.CoverImageID,
		ImageIDs:      r.ImageIDs,
		AttachmentIDs: r.AttachmentIDs,
		Publish:       r.Publish,
	}
}

// CreateArticle godoc
// @Summary Create a new article
// @Description Create an article; its initial status follows the publish intent and the author's role
// @Tags article
// @Accept json
// @Produce json
// @Param article body articleRequest true "Article data"
// @Success 201 {object} map[string]interface{} "Article created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Router /api/articles [post]
func (ac *ArticleController) CreateArticle(c *gin.Context) {
	userID, role, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	article, err := ac.svc.Create(userID, role, req.toInput())
	if err != nil {
		respondError(c, err, "Failed to create article")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Article created successfully",
		"data":    article,
	})
}

// GetArticleByID godoc
// @Summary Get an article by ID
// @Description Retrieve the full article with author resolved
// @Tags article
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{} "Article retrieved successfully"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /api/articles/{id} [get]
func (ac *ArticleController) GetArticleByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	article, err := ac.repo.FindByID(id)
	if err != nil {
		respondError(c, err, "Article not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article retrieved successfully",
		"data":    article,
	})
}

// ListArticles godoc
// @Summary List articles
// @Description List articles filtered by status, partition, category and author. Without a status filter only PUBLIC articles are returned.
// @Tags article
// @Produce json
// @Param status query string false "Status filter, comma separated (e.g. PUBLIC,PENDING)"
// @Param partition query string false "Partition filter"
// @Param category query string false "Category filter"
// @Param author query int false "Author ID filter"
// @Success 200 {object} map[string]interface{} "Articles retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Router /api/articles [get]
func (ac *ArticleController) ListArticles(c *gin.Context) {
	var filter repository.ArticleFilter

	if statusParam := c.Query("status"); statusParam != "" {
		for _, s := range strings.Split(statusParam, ",") {
			status := models.ArticleStatus(strings.TrimSpace(s))
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{
					"status":  "error",
					"message": "Invalid status filter",
					"error":   "Status must be one of PRIVATE, PENDING, PUBLIC",
				})
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if partitionParam := c.Query("partition"); partitionParam != "" {
		partition := models.Partition(partitionParam)
		if !partition.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid partition filter",
				"error":   "Partition must be one of SQUARE, NOTICE, DOWNLOAD, LECTURE",
			})
			return
		}
		filter.Partition = partition
	}
	filter.Category = c.Query("category")
	if authorParam := c.Query("author"); authorParam != "" {
		authorID, err := strconv.ParseUint(authorParam, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid author filter",
				"error":   "Author ID must be a valid positive integer",
			})
			return
		}
		filter.AuthorID = uint(authorID)
	}

	articles, err := ac.repo.FindWithFilter(filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve articles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Articles retrieved successfully",
		"data":    articles,
	})
}

// UpdateArticle godoc
// @Summary Update an article
// @Description Author-only edit; the publish intent re-runs the moderation rule
// @Tags article
// @Accept json
// @Produce json
// @Param id path int true "Article ID"
// @Param article body articleRequest true "Article data"
// @Success 200 {object} map[string]interface{} "Article updated successfully"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /api/articles/{id} [put]
func (ac *ArticleController) UpdateArticle(c *gin.Context) {
	userID, role, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	article, err := ac.svc.Update(id, userID, role, req.toInput())
	if err != nil {
		respondError(c, err, "Failed to update article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article updated successfully",
		"data":    article,
	})
}

// DeleteArticle godoc
// @Summary Delete an article
// @Description Permanently delete the article; its comments and blobs are removed with it
// @Tags article
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{} "Article deleted successfully"
// @Failure 403 {object} map[string]interface{} "Not the author or a moderator"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /api/articles/{id} [delete]
func (ac *ArticleController) DeleteArticle(c *gin.Context) {
	userID, role, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ac.svc.Delete(id, userID, role); err != nil {
		respondError(c, err, "Failed to delete article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article deleted successfully",
		"data":    nil,
	})
}

// ApproveArticle godoc
// @Summary Approve a pending article
// @Description Moderator-only transition PENDING -> PUBLIC
// @Tags moderation
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{} "Article approved"
// @Failure 400 {object} map[string]interface{} "Article is not pending review"
// @Failure 403 {object} map[string]interface{} "Moderator role required"
// @Router /api/articles/{id}/approve [post]
func (ac *ArticleController) ApproveArticle(c *gin.Context) {
	_, role, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ac.svc.Approve(id, role); err != nil {
		respondError(c, err, "Failed to approve article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article approved",
		"data":    gin.H{"status": models.StatusPublic},
	})
}

// RejectArticle godoc
// @Summary Reject a pending article
// @Description Moderator-only transition PENDING -> PRIVATE; the draft is kept
// @Tags moderation
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{} "Article rejected"
// @Failure 400 {object} map[string]interface{} "Article is not pending review"
// @Failure 403 {object} map[string]interface{} "Moderator role required"
// @Router /api/articles/{id}/approve [delete]
func (ac *ArticleController) RejectArticle(c *gin.Context) {
	_, role, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ac.svc.Reject(id, role); err != nil {
		respondError(c, err, "Failed to reject article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article rejected",
		"data":    gin.H{"status": models.StatusPrivate},
	})
}

// ToggleLike godoc
// @Summary Toggle a like
// @Description Idempotent per-user like toggle; returns the new membership and count
// @Tags article
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{} "Like toggled"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /api/articles/{id}/like [post]
func (ac *ArticleController) ToggleLike(c *gin.Context) {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	liked, count, err := ac.repo.ToggleLike(id, userID)
	if err != nil {
		respondError(c, err, "Failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Like toggled",
		"data":    gin.H{"liked": liked, "like_count": count},
	})
}

// ListLikedByMe returns the articles the authenticated user has liked,
// newest first.
func (ac *ArticleController) ListLikedByMe(c *gin.Context) {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}

	articles, err := ac.repo.FindLikedBy(userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve liked articles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Articles retrieved successfully",
		"data":    articles,
	})
}

// SearchArticles matches article titles case-insensitively, capped at 20
// results, returning id and title only.
func (ac *ArticleController) SearchArticles(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "No query provided",
			"data":    []models.ArticleSummary{},
		})
		return
	}

	articles, err := ac.repo.SearchByTitle(query, 20)
	if err != nil {
		respondError(c, err, "Search failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Search completed",
		"data":    articles,
	})
}

// ListAttachments returns metadata for the article's downloadable files
// without transferring any payloads.
func (ac *ArticleController) ListAttachments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	article, err := ac.repo.FindByID(id)
	if err != nil {
		respondError(c, err, "Article not found")
		return
	}

	infos := make([]*models.Blob, 0, len(article.AttachmentIDs))
	for _, blobID := range article.AttachmentIDs {
		info, err := ac.blobs.FindInfoByID(blobID)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Attachments retrieved successfully",
		"data":    infos,
	})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid ID",
			"error":   "ID must be a valid positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
