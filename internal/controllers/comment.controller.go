package controllers

import (
	"campushub/internal/apperr"
	"campushub/internal/middleware"
	"campushub/internal/models"
	"campushub/internal/repository"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
}

func NewCommentController(comments repository.CommentRepository, articles repository.ArticleRepository) *CommentController {
	return &CommentController{comments: comments, articles: articles}
}

// ListComments returns an article's comments, authors resolved, newest
// first.
func (cc *CommentController) ListComments(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := cc.articles.FindByID(articleID); err != nil {
		respondError(c, err, "Article not found")
		return
	}

	comments, err := cc.comments.FindByArticleID(articleID)
	if err != nil {
		respondError(c, err, "Failed to retrieve comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Comments retrieved successfully",
		"data":    comments,
	})
}

type addCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddComment creates a comment on an article and links it into the
// article's comment list.
func (cc *CommentController) AddComment(c *gin.Context) {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}
	articleID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Comment content must not be empty",
			"error":   apperr.ErrValidation.Error(),
		})
		return
	}

	comment := &models.Comment{
		Content:   content,
		AuthorID:  userID,
		ArticleID: articleID,
	}
	if err := cc.comments.Create(comment); err != nil {
		respondError(c, err, "Failed to add comment")
		return
	}

	// Reload with the author resolved.
	created, err := cc.comments.FindByID(comment.ID)
	if err != nil {
		created = comment
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Comment added successfully",
		"data":    created,
	})
}

// DeleteComment removes a comment. The comment's author may always delete
// it; moderators may delete anyone's.
func (cc *CommentController) DeleteComment(c *gin.Context) {
	userID, role, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
			"error":   "No verified identity on request",
		})
		return
	}
	articleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return
	}

	comment, err := cc.comments.FindByID(commentID)
	if err != nil {
		respondError(c, err, "Comment not found")
		return
	}
	if comment.ArticleID != articleID {
		respondError(c, apperr.ErrNotFound, "Comment not found on this article")
		return
	}
	if comment.AuthorID != userID && !role.IsModerator() {
		respondError(c, apperr.ErrForbidden, "Only the comment author may delete it")
		return
	}

	if err := cc.comments.Delete(commentID); err != nil {
		respondError(c, err, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Comment deleted successfully",
		"data":    nil,
	})
}
