package routes

import (
	"portfolio/internal/controllers"
	"portfolio/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterProjectRoutes(router *gin.Engine, projectController *controllers.ProjectController) {
	projectRoutesPublic := router.Group("/projects")
	projectRoutesPublic.Use(middleware.OptionalAuthMiddleware())
	{
		projectRoutesPublic.GET("", projectController.ListProjects)
		projectRoutesPublic.GET("/:id", projectController.GetProjectByID)
	}

	projectRoutesPrivate := router.Group("/projects")
	projectRoutesPrivate.Use(middleware.AuthMiddleware())
	{
		projectRoutesPrivate.POST("/create", projectController.CreateProject)
		projectRoutesPrivate.PUT("/update", projectController.UpdateProject)
		projectRoutesPrivate.DELETE("/delete", projectController.DeleteProject)
	}
}
