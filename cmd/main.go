package main

import (
	"campushub/database"
	"campushub/docs"
	"campushub/internal/cache"
	"campushub/internal/controllers"
	"campushub/internal/repository"
	"campushub/internal/services"
	"campushub/routes"
	"log"
	"os"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load("../.env"); err != nil {
		log.Println("No .env file found, relying on the environment")
	}

	// Swagger Documentation
	docs.SwaggerInfo.Title = "CampusHub API"
	docs.SwaggerInfo.Description = "Campus content portal: articles, moderation workflow, comments, likes and binary attachments."
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Connect to database
	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	database.MonitorDBConnections()

	// Redis is optional; without it the article repository runs uncached.
	var redisClient *cache.RedisClient
	if client, err := cache.NewRedisClient(); err != nil {
		log.Printf("Warning: Redis unavailable, article caching disabled: %v", err)
	} else {
		redisClient = client
		defer redisClient.Close()
		log.Println("Connected to Redis successfully")
	}

	// Initialize repositories
	var articleRepo repository.ArticleRepository
	if redisClient != nil {
		articleRepo = repository.NewCachedArticleRepository(database.DB, redisClient.Client())
	} else {
		articleRepo = repository.NewArticleRepository(database.DB)
	}
	commentRepo := repository.NewCommentRepository(database.DB, articleRepo)
	blobRepo := repository.NewBlobRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)

	// Blob cleanup worker retries cascade deletions that failed.
	workerCount := runtime.NumCPU()
	if workerCount > 4 {
		workerCount = 4
	}
	cleanupWorker := services.NewCleanupWorker(blobRepo, workerCount)
	log.Printf("Starting blob cleanup worker with %d workers...", workerCount)
	cleanupWorker.Start()
	defer cleanupWorker.Stop()

	articleService := services.NewArticleService(articleRepo, commentRepo, blobRepo, cleanupWorker)

	// Initialize controllers
	articleController := controllers.NewArticleController(articleService, articleRepo, blobRepo)
	commentController := controllers.NewCommentController(commentRepo, articleRepo)
	blobController := controllers.NewBlobController(blobRepo)
	authController := controllers.NewAuthController(userRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message":  "CampusHub API is running",
			"version":  "1.0.0",
			"status":   "healthy",
			"database": "PostgreSQL",
			"cache":    redisClient != nil,
		})
	})

	routes.RegisterArticleRoutes(router, articleController, commentController)
	routes.RegisterBlobRoutes(router, blobController)
	routes.RegisterAuthRoutes(router, authController)
	routes.RegisterSwaggerRoutes(router)

	// Debug endpoints
	router.GET("/debug/stats", func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(200, gin.H{
			"goroutines": runtime.NumGoroutine(),
			"memory_mb":  m.Alloc / 1024 / 1024,
			"workers":    workerCount,
		})
	})

	router.GET("/debug/database", func(c *gin.Context) {
		sqlDB, err := database.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{
				"database_health": false,
				"error":           err.Error(),
			})
			return
		}

		var result int
		row := sqlDB.QueryRowContext(c.Request.Context(), "SELECT 1")
		err = row.Scan(&result)
		isHealthy := err == nil && result == 1

		c.JSON(200, gin.H{
			"database_health": isHealthy,
		})
	})

	router.GET("/debug/cache", func(c *gin.Context) {
		if redisClient == nil {
			c.JSON(200, gin.H{"connected": false})
			return
		}
		status, err := redisClient.GetStatus()
		if err != nil {
			c.JSON(500, gin.H{"connected": false, "error": err.Error()})
			return
		}
		c.JSON(200, status)
	})

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
