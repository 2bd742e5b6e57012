package routes

import (
	"portfolio/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterContactRoutes(router *gin.Engine, contactController *controllers.ContactController) {
	router.POST("/contact", contactController.SubmitContact)
}
