package main

import (
	"net/http"
	"os"
	"time"

	"portfolio/database"
	"portfolio/internal/cache"
	"portfolio/internal/controllers"
	"portfolio/internal/media"
	"portfolio/internal/repository"
	"portfolio/internal/utils"
	"portfolio/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, relying on environment")
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	database.ConnectDatabase(logger)
	if err := database.MigrateDatabase(logger); err != nil {
		logger.WithError(err).Fatal("failed to run database migrations")
	}
	database.MonitorDBConnections(logger)

	// Redis is optional; without it the repositories read straight from
	// Postgres on every request.
	var (
		blogRepo    repository.BlogRepository
		projectRepo repository.ProjectRepository
	)
	if redisClient, err := cache.NewRedisClient(); err != nil {
		logger.WithError(err).Info("running without Redis cache")
		blogRepo = repository.NewBlogRepository(database.DB, logger)
		projectRepo = repository.NewProjectRepository(database.DB, logger)
	} else {
		logger.Info("Redis cache enabled")
		blogRepo = repository.NewCachedBlogRepository(database.DB, redisClient, logger)
		projectRepo = repository.NewCachedProjectRepository(database.DB, redisClient, logger)
	}
	userRepo := repository.NewUserRepository(database.DB)

	uploader := media.NewCloudinaryClient()
	mailer := utils.NewSMTPMailer(utils.LoadMailConfig(), logger)

	blogController := controllers.NewBlogController(blogRepo, logger)
	projectController := controllers.NewProjectController(projectRepo, logger)
	authController := controllers.NewAuthController(userRepo, logger)
	uploadController := controllers.NewUploadController(uploader, logger)
	contactController := controllers.NewContactController(mailer, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Portfolio API is running",
			"version": "1.0.0",
			"status":  "healthy",
		})
	})

	routes.RegisterAuthRoutes(router, authController)
	routes.RegisterBlogRoutes(router, blogController)
	routes.RegisterProjectRoutes(router, projectController)
	routes.RegisterUploadRoutes(router, uploadController)
	routes.RegisterContactRoutes(router, contactController)

	router.GET("/debug/database", func(c *gin.Context) {
		sqlDB, err := database.DB.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"database_health": false,
				"error":           err.Error(),
			})
			return
		}

		var result int
		row := sqlDB.QueryRowContext(c.Request.Context(), "SELECT 1")
		err = row.Scan(&result)
		c.JSON(http.StatusOK, gin.H{
			"database_health": err == nil && result == 1,
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logger.WithField("port", port).Info("portfolio API server starting")

	if err := server.ListenAndServe(); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
}
