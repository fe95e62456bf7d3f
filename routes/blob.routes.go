package routes

import (
	"campushub/internal/controllers"
	"campushub/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBlobRoutes exposes the two upload surfaces. Reads are public;
// uploads and deletes require a verified identity.
func RegisterBlobRoutes(router *gin.Engine, blobController *controllers.BlobController) {
	auth := middleware.AuthMiddleware()

	imageRoutes := router.Group("/api/images")
	{
		imageRoutes.POST("", auth, blobController.UploadImages)
		imageRoutes.GET("/:id", blobController.GetBlob)
		imageRoutes.GET("/:id/info", blobController.GetBlobInfo)
		imageRoutes.DELETE("/:id", auth, blobController.DeleteBlob)
	}

	fileRoutes := router.Group("/api/files")
	{
		fileRoutes.POST("", auth, blobController.UploadFiles)
		fileRoutes.GET("/:id", blobController.GetBlob)
		fileRoutes.GET("/:id/info", blobController.GetBlobInfo)
		fileRoutes.DELETE("/:id", auth, blobController.DeleteBlob)
	}
}
