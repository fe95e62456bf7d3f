package routes

import (
	"campushub/internal/controllers"
	"campushub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterArticleRoutes(router *gin.Engine, articleController *controllers.ArticleController, commentController *controllers.CommentController) {
	auth := middleware.AuthMiddleware()

	articleRoutes := router.Group("/api/articles")
	{
		articleRoutes.GET("", articleController.ListArticles)
		articleRoutes.POST("", auth, articleController.CreateArticle)
		articleRoutes.GET("/search", articleController.SearchArticles)
		articleRoutes.GET("/liked-by-me", auth, articleController.ListLikedByMe)
		articleRoutes.GET("/:id", articleController.GetArticleByID)
		articleRoutes.PUT("/:id", auth, articleController.UpdateArticle)
		articleRoutes.DELETE("/:id", auth, articleController.DeleteArticle)
		articleRoutes.POST("/:id/approve", auth, articleController.ApproveArticle)
		articleRoutes.DELETE("/:id/approve", auth, articleController.RejectArticle)
		articleRoutes.POST("/:id/like", auth, articleController.ToggleLike)
		articleRoutes.GET("/:id/attachments", articleController.ListAttachments)

		articleRoutes.GET("/:id/comments", commentController.ListComments)
		articleRoutes.POST("/:id/comments", auth, commentController.AddComment)
		articleRoutes.DELETE("/:id/comments/:commentId", auth, commentController.DeleteComment)
	}
}
