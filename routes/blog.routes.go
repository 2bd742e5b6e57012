package routes

import (
	"portfolio/internal/controllers"
	"portfolio/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterBlogRoutes(router *gin.Engine, blogController *controllers.BlogController) {
	blogRoutesPublic := router.Group("/blogs")
	blogRoutesPublic.Use(middleware.OptionalAuthMiddleware())
	{
		blogRoutesPublic.GET("", blogController.ListBlogs)
		blogRoutesPublic.GET("/:id", blogController.GetBlogByID)
	}

	blogRoutesPrivate := router.Group("/blogs")
	blogRoutesPrivate.Use(middleware.AuthMiddleware())
	{
		blogRoutesPrivate.POST("/create", blogController.CreateBlog)
		blogRoutesPrivate.PUT("/update", blogController.UpdateBlog)
		blogRoutesPrivate.DELETE("/delete", blogController.DeleteBlog)
	}
}
