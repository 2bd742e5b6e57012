package routes

import (
	"portfolio/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(router *gin.Engine, uploadController *controllers.UploadController) {
	router.POST("/upload", uploadController.UploadImage)
}
